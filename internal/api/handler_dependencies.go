package api

import (
	"github.com/terraincognita07/glpcare/internal/db"
	"github.com/terraincognita07/glpcare/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.ensureDependencies()
	return handler
}

func (handler *Handler) ensureDependencies() {
	if handler.repositories == nil {
		if handler.db == nil {
			return
		}
		handler.repositories = db.NewRepositories(handler.db)
	}
	repositories := handler.repositories

	if handler.authService == nil {
		handler.authService = services.NewAuthService(repositories.Patients, repositories.LoginCodes, services.LogCodeSender{}, handler.baseURL)
	}
	if handler.logService == nil {
		handler.logService = services.NewLogService(repositories.DailyLogs, repositories.WeeklyLogs)
	}
	if handler.shareService == nil {
		handler.shareService = services.NewShareService(repositories.ShareTokens, repositories.Patients, handler.logService)
	}
	if handler.dashboardService == nil {
		handler.dashboardService = services.NewDashboardService(repositories.Patients, repositories.DailyLogs, repositories.WeeklyLogs)
	}
}
