package api

import (
	"net/http"
	"testing"
	"time"
)

func TestShareLinkLifecycle(t *testing.T) {
	env := newTestApp(t)
	owner := env.createPatient(t, "owner@example.com", "", "")
	stranger := env.createPatient(t, "stranger@example.com", "", "")
	ownerCookie := env.sessionCookie(t, owner)

	response, payload := env.do(t, testRequest{method: http.MethodPost, path: "/api/share", cookie: ownerCookie, body: map[string]any{"expires_minutes": 1440}})
	expectStatus(t, response, payload, http.StatusOK)
	token, _ := payload["token"].(string)
	if len(token) != 32 {
		t.Fatalf("expected share token, got %v", payload)
	}

	response, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/share", cookie: ownerCookie})
	expectStatus(t, response, payload, http.StatusOK)
	if tokens, _ := payload["tokens"].([]any); len(tokens) != 1 {
		t.Fatalf("expected one listed token, got %v", payload)
	}

	response, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/share/" + token})
	expectStatus(t, response, payload, http.StatusOK)
	report, _ := payload["report"].(map[string]any)
	if report["period_days"] != float64(14) || report["user_id"] != owner.UserID {
		t.Fatalf("unexpected shared report: %v", payload)
	}

	response, payload = env.do(t, testRequest{method: http.MethodDelete, path: "/api/share/" + token, cookie: env.sessionCookie(t, stranger)})
	expectStatus(t, response, payload, http.StatusForbidden)

	response, payload = env.do(t, testRequest{method: http.MethodDelete, path: "/api/share/" + token, cookie: ownerCookie})
	expectStatus(t, response, payload, http.StatusOK)

	response, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/share/" + token})
	expectStatus(t, response, payload, http.StatusGone)

	response, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/share/unknown-token"})
	expectStatus(t, response, payload, http.StatusNotFound)
}

func TestShareLinkExpires(t *testing.T) {
	env := newTestApp(t)
	owner := env.createPatient(t, "expiry@example.com", "", "")

	response, payload := env.do(t, testRequest{method: http.MethodPost, path: "/api/share", cookie: env.sessionCookie(t, owner)})
	expectStatus(t, response, payload, http.StatusOK)
	token, _ := payload["token"].(string)

	env.handler.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	response, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/share/" + token})
	expectStatus(t, response, payload, http.StatusGone)
}
