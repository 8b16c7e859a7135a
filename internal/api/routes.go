package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/request-code", handler.RequestCode)
	auth.Post("/verify-code", handler.VerifyCode)
	auth.Get("/verify", handler.VerifyLink)
	auth.Post("/logout", handler.Logout)

	api.Get("/user/me", handler.AuthRequired, handler.Me)
	api.Get("/status", handler.AuthRequired, handler.GetStatus)
	api.Get("/report", handler.AuthRequired, handler.GetReport)

	logs := api.Group("/logs", handler.AuthRequired)
	logs.Get("/daily", handler.GetDailyLogs)
	logs.Post("/daily", handler.CreateDailyLog)
	logs.Get("/weekly", handler.GetWeeklyLogs)
	logs.Post("/weekly", handler.CreateWeeklyLog)

	api.Get("/share", handler.AuthRequired, handler.ListShares)
	api.Post("/share", handler.AuthRequired, handler.CreateShare)
	api.Get("/share/:token", handler.OpenShare)
	api.Delete("/share/:token", handler.AuthRequired, handler.RevokeShare)

	roadmap := api.Group("/roadmap")
	roadmap.Post("", handler.BuildRoadmap)
	roadmap.Post("/weekly", handler.BuildWeeklyStrategy)

	clinics := api.Group("/clinics/:clinic_id")
	clinics.Get("/dashboard", handler.ClinicAuthRequired, handler.ClinicDashboard)
	clinics.Get("/patients", handler.ClinicAuthRequired, handler.ClinicPatients)
	clinics.Get("/patients/:patient_code/report", handler.ClinicAuthRequired, handler.ClinicPatientReport)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
