package postgres

import (
	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table in migration order
var Models = []any{
	&domain.User{},
	&domain.UserSession{},
	&domain.Competition{},
	&domain.Athlete{},
	&domain.Event{},
	&domain.Registration{},
	&domain.Heat{},
	&domain.HeatAssignment{},
}

func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Competition:  NewCompetitionRepository(db),
		Athlete:      NewAthleteRepository(db),
		Event:        NewEventRepository(db),
		Registration: NewRegistrationRepository(db),
		Heat:         NewHeatRepository(db),
	}
}
