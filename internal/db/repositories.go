package db

import "gorm.io/gorm"

type Repositories struct {
	Patients    *PatientRepository
	DailyLogs   *DailyLogRepository
	WeeklyLogs  *WeeklyLogRepository
	ShareTokens *ShareTokenRepository
	LoginCodes  *LoginCodeRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Patients:    NewPatientRepository(database),
		DailyLogs:   NewDailyLogRepository(database),
		WeeklyLogs:  NewWeeklyLogRepository(database),
		ShareTokens: NewShareTokenRepository(database),
		LoginCodes:  NewLoginCodeRepository(database),
	}
}
