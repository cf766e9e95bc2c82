package app

import (
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/quiniela/external/jobqueue"
	"github.com/riskibarqy/quiniela/external/sofascore"
	"github.com/riskibarqy/quiniela/internal/config"
	"github.com/riskibarqy/quiniela/internal/domain/round"
	"github.com/riskibarqy/quiniela/internal/domain/ticket"
	cacherepo "github.com/riskibarqy/quiniela/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/quiniela/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/quiniela/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/quiniela/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/quiniela/internal/platform/cache"
	"github.com/riskibarqy/quiniela/internal/platform/id"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/riskibarqy/quiniela/internal/platform/resilience"
	"github.com/riskibarqy/quiniela/internal/usecase"
)

type repositories struct {
	rounds  round.Repository
	tickets ticket.Repository
	close   func() error
}

// NewHTTPServer wires storage, services and the router. The returned cleanup releases the
// database pool and must be called after the server stops.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	clock := clockwork.NewRealClock()
	repos, err := newRepositories(cfg, clock, logger)
	if err != nil {
		return nil, nil, err
	}

	roundSvc := usecase.NewRoundService(repos.rounds, logger)
	submissionSvc := usecase.NewSubmissionService(repos.tickets, roundSvc, id.NewUUIDGenerator(), clock, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.tickets, roundSvc)
	roundSyncSvc := usecase.NewRoundSyncService(
		newSofaScoreClient(cfg, clock, logger),
		repos.rounds,
		roundSyncConfig(cfg),
		clock,
		logger,
	)

	syncScheduler := usecase.NewRoundSyncScheduler(newJobPublisher(cfg, clock, logger), roundSyncSvc, clock, logger)

	handler := httpapi.NewHandler(roundSvc, submissionSvc, leaderboardSvc, roundSyncSvc, syncScheduler, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:         cfg.AdminToken,
		InternalJobToken:   cfg.InternalJobToken,
	}, logger)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, repos.close, nil
}

func newRepositories(cfg config.Config, clock clockwork.Clock, logger *logging.Logger) (repositories, error) {
	var repos repositories
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, err
		}
		logger.Info("storage configured", "driver", config.StoragePostgres, "db", dbNameFromURL(cfg.DBURL))
		repos = repositories{
			rounds:  postgres.NewRoundRepository(db),
			tickets: postgres.NewTicketRepository(db),
			close:   db.Close,
		}
	default:
		logger.Info("storage configured", "driver", config.StorageMemory)
		repos = repositories{
			rounds:  memory.NewRoundRepository(memory.SeedRounds(clock.Now())),
			tickets: memory.NewTicketRepository(nil),
			close:   func() error { return nil },
		}
	}

	if cfg.CacheEnabled {
		store := basecache.NewStoreWithClock(cfg.CacheTTL, clock)
		repos.rounds = cacherepo.NewRoundRepository(repos.rounds, store)
		repos.tickets = cacherepo.NewTicketRepository(repos.tickets, store)
	}

	return repos, nil
}

func newSofaScoreClient(cfg config.Config, clock clockwork.Clock, logger *logging.Logger) *sofascore.Client {
	return sofascore.NewClient(sofascore.ClientConfig{
		BaseURL:      cfg.SofaScoreBaseURL,
		TournamentID: cfg.SofaScoreTournamentID,
		SeasonID:     cfg.SofaScoreSeasonID,
		Timeout:      cfg.SofaScoreTimeout,
		MaxRetries:   cfg.SofaScoreMaxRetries,
		Clock:        clock,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SofaScoreCircuitEnabled,
			FailureThreshold: cfg.SofaScoreCircuitFailureCount,
			OpenTimeout:      cfg.SofaScoreCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SofaScoreCircuitHalfOpenMaxReq,
		},
	})
}

// newJobPublisher returns nil when the queue is off so the scheduler reports it as unavailable.
func newJobPublisher(cfg config.Config, clock clockwork.Clock, logger *logging.Logger) usecase.JobPublisher {
	if !cfg.QStashEnabled {
		return nil
	}

	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		Clock:            clock,
		CircuitBreaker:   resilience.DefaultCircuitBreakerConfig(),
	}, logger)
}

func roundSyncConfig(cfg config.Config) usecase.RoundSyncConfig {
	sources := make([]usecase.RoundFeedSource, 0, len(cfg.SofaScoreRounds))
	for _, item := range cfg.SofaScoreRounds {
		sources = append(sources, usecase.RoundFeedSource{Label: item.Label, Number: item.Number})
	}

	return usecase.RoundSyncConfig{
		Enabled:    cfg.SofaScoreEnabled,
		Rounds:     sources,
		MaxWorkers: cfg.RoundSyncWorkers,
	}
}
