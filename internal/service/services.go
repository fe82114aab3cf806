package service

import (
	"github.com/dom/trackmeet/internal/config"
	"github.com/dom/trackmeet/internal/metrics"
	"github.com/dom/trackmeet/internal/repository"
	"github.com/dom/trackmeet/internal/seeding"
	"go.uber.org/zap"
)

type Services struct {
	Auth         *AuthService
	Competition  *CompetitionService
	Athlete      *AthleteService
	Registration *RegistrationService
	Heat         *HeatService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, logger *zap.Logger, m *metrics.Manager) *Services {
	heats := NewHeatService(repos.Event, repos.Heat, repos.Registration, NewEngine(cfg), logger, cfg.DefaultMaxLanes)
	heats.SetMetrics(m)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.Session, cfg),
		Competition:  NewCompetitionService(repos.Competition, repos.Event),
		Athlete:      NewAthleteService(repos.Athlete),
		Registration: NewRegistrationService(repos.Registration, repos.Event, repos.Athlete),
		Heat:         heats,
	}
}

// NewEngine builds the seeding engine from config. A zero seed draws from the clock.
func NewEngine(cfg *config.Config) *seeding.Engine {
	opts := []seeding.Option{seeding.WithLocale(cfg.CollationLocale)}
	if cfg.SeedingRandomSeed != 0 {
		opts = append(opts, seeding.WithSeed(cfg.SeedingRandomSeed))
	}
	return seeding.NewEngine(opts...)
}
