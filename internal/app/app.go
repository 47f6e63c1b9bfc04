package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	economyclient "github.com/riskibarqy/club-league/external/economy"
	rosterclient "github.com/riskibarqy/club-league/external/roster"
	"github.com/riskibarqy/club-league/internal/config"
	"github.com/riskibarqy/club-league/internal/domain/fixture"
	"github.com/riskibarqy/club-league/internal/domain/league"
	"github.com/riskibarqy/club-league/internal/domain/season"
	"github.com/riskibarqy/club-league/internal/domain/simulation"
	"github.com/riskibarqy/club-league/internal/domain/team"
	economymem "github.com/riskibarqy/club-league/internal/infrastructure/economy"
	rosterstatic "github.com/riskibarqy/club-league/internal/infrastructure/roster"
	"github.com/riskibarqy/club-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/club-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/club-league/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/club-league/internal/platform/id"
	"github.com/riskibarqy/club-league/internal/platform/logging"
	"github.com/riskibarqy/club-league/internal/platform/resilience"
	"github.com/riskibarqy/club-league/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	rules := league.Rules{
		DivisionCount:    cfg.DivisionCount,
		DivisionSize:     cfg.DivisionSize,
		PromotionCount:   cfg.PromotionCount,
		AIRatingMin:      cfg.AIRatingMin,
		AIRatingMax:      cfg.AIRatingMax,
		GameweekInterval: cfg.GameweekInterval,
		WinReward:        cfg.MatchWinReward,
		DrawReward:       cfg.MatchDrawReward,
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("validate league rules: %w", err)
	}

	seed := cfg.SimSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := simulation.NewEngine(simulation.Params{
		BaseExpectedGoals: cfg.SimBaseExpectedGoals,
		HomeAdvantage:     cfg.SimHomeAdvantage,
		StrengthScale:     cfg.SimStrengthScale,
		StrengthSpread:    cfg.SimStrengthSpread,
		MinExpectedGoals:  cfg.SimMinExpectedGoals,
		MaxGoals:          cfg.SimMaxGoals,
	}, seed)

	seasonRepo, teamRepo, fixtureRepo, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	economy := buildEconomy(cfg, logger)
	roster := buildRoster(cfg, logger)

	clock := clockwork.NewRealClock()
	ids := idgen.NewRandomGenerator()

	seasonSvc := usecase.NewSeasonService(seasonRepo, fixtureRepo, clock, logger)
	teamSvc := usecase.NewTeamService(teamRepo, fixtureRepo, rules, ids, logger)
	scheduleSvc := usecase.NewScheduleService(teamRepo, fixtureRepo, rules, ids, clock, logger)
	matchSvc := usecase.NewMatchService(fixtureRepo, teamRepo, engine, economy, roster, rules, logger)
	gameweekSvc := usecase.NewGameweekService(fixtureRepo, matchSvc, cfg.SimWorkerCount, logger)
	progressionSvc := usecase.NewProgressionService(seasonRepo, teamRepo, fixtureRepo, scheduleSvc, rules, ids, clock, logger)

	handler := httpapi.NewHandler(seasonSvc, teamSvc, scheduleSvc, matchSvc, gameweekSvc, progressionSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (season.Repository, team.Repository, fixture.Repository, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("storage driver ready", "driver", cfg.StorageDriver, "db", dbNameFromURL(cfg.DBURL))
		return postgres.NewSeasonRepository(db), postgres.NewTeamRepository(db), postgres.NewFixtureRepository(db), nil
	case config.StorageMemory:
		teamRepo := memory.NewTeamRepository()
		logger.Info("storage driver ready", "driver", cfg.StorageDriver)
		return memory.NewSeasonRepository(), teamRepo, memory.NewFixtureRepository(teamRepo), nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// buildEconomy returns the real ledger client when the economy service is
// configured, and an in-process ledger otherwise so local runs still award
// match rewards.
func buildEconomy(cfg config.Config, logger *logging.Logger) usecase.EconomyLedger {
	if !cfg.EconomyEnabled {
		logger.Info("economy ledger running in-memory", "reason", "ECONOMY_ENABLED=false")
		return economymem.NewMemoryLedger()
	}

	return economyclient.NewClient(economyclient.ClientConfig{
		BaseURL: cfg.EconomyBaseURL,
		APIKey:  cfg.EconomyAPIKey,
		Timeout: cfg.EconomyTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.EconomyCircuitEnabled,
			FailureThreshold: cfg.EconomyCircuitFailureCount,
			OpenTimeout:      cfg.EconomyCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.EconomyCircuitHalfOpenMaxReq,
		},
	}, logger)
}

// buildRoster returns the live squad-service client when configured, and a
// static source otherwise so human clubs fall back to a fixed strength.
func buildRoster(cfg config.Config, logger *logging.Logger) usecase.RosterSource {
	if !cfg.RosterEnabled {
		logger.Info("roster source running statically", "reason", "ROSTER_ENABLED=false", "fallback_strength", cfg.RosterFallbackStrength)
		return rosterstatic.NewStaticSource(cfg.RosterFallbackStrength)
	}

	return rosterclient.NewClient(
		&http.Client{Timeout: cfg.RosterTimeout},
		cfg.RosterBaseURL,
		cfg.RosterAPIKey,
		logger,
	)
}
