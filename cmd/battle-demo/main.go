package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/duskhollow/battle-ui-go/internal/battle/bridge"
	"github.com/duskhollow/battle-ui-go/internal/battle/engine"
	"github.com/duskhollow/battle-ui-go/internal/battle/events"
	"github.com/duskhollow/battle-ui-go/internal/battle/status"
	"github.com/duskhollow/battle-ui-go/internal/battle/view"
	"github.com/duskhollow/battle-ui-go/internal/config"
	"github.com/duskhollow/battle-ui-go/internal/report"
	"github.com/duskhollow/battle-ui-go/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting battle demo",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	catalog, err := status.LoadCatalog(cfg.Battle.StatusCatalog, logger)
	if err != nil {
		logger.Warn("status catalog unavailable; display names will be synthesized", zap.Error(err))
		catalog = status.NewCatalog(logger)
	}

	bus := events.NewBus(logger)
	eng := engine.NewScriptedEngine(logger)

	br, err := bridge.New(eng, bus, logger)
	if err != nil {
		logger.Fatal("failed to initialize combat bridge", zap.Error(err))
	}

	scene := view.NewScene(bus, br, catalog, view.SceneConfig{
		MaxStatusSlots: cfg.Battle.MaxStatusSlots,
		LogCapacity:    cfg.Battle.LogCapacity,
	}, logger)
	scene.Start()

	var hub *server.Hub
	if cfg.Server.WebSocket.Enabled {
		hub = server.NewHub(logger)
		hub.Attach(bus)
		go hub.Run()
		go func() {
			if wsErr := server.StartWebSocketServer(cfg.Server.WebSocket, hub, logger); wsErr != nil {
				logger.Error("websocket server error", zap.Error(wsErr))
			}
		}()
	}

	if cfg.Database.Enabled() {
		db, dbErr := report.NewDB(ctx, cfg.Database, logger)
		if dbErr != nil {
			logger.Warn("battle report persistence disabled", zap.Error(dbErr))
		} else {
			defer db.Close()
			recorder := report.NewRecorder(report.NewRepository(db), logger)
			recorder.Attach(bus)
		}
	}

	if err := br.SetSpeed(cfg.Battle.Speed); err != nil {
		logger.Warn("failed to set battle speed", zap.Error(err))
	}

	script := newBattleScript(br, logger)

	// Host tick loop: advances one scripted step and the scene animations
	// per tick. Steps publish on this goroutine, so every subscriber
	// mutation happens on the same goroutine that reads scene state.
	ticker := time.NewTicker(cfg.Battle.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			script.Step()
			scene.Update(now)
			if script.Done() && scene.BattleOver() && !anyAnimating(scene) {
				printOutcome(scene)
				scene.Teardown()
				if hub != nil {
					hub.Detach(bus)
					hub.Stop()
				}
				logger.Info("battle demo finished")
				return
			}

		case sig := <-sigChan:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			cancel()
			scene.Teardown()
			if hub != nil {
				hub.Detach(bus)
				hub.Stop()
			}
			return
		}
	}
}

func anyAnimating(scene *view.Scene) bool {
	busy := false
	scene.Roster().Each(func(n *view.CharacterNode) {
		if n.Animator().Busy() {
			busy = true
		}
	})
	return busy
}

func printOutcome(scene *view.Scene) {
	for _, entry := range scene.Log().Entries() {
		fmt.Printf("[%s] %s\n", entry.Type, entry.Message)
	}
}

// battleScript plays a small fixed encounter through the bridge so every
// event kind shows up in the stream. The host loop advances it one step per
// tick; the script never owns a goroutine of its own.
type battleScript struct {
	logger *zap.Logger
	steps  []func() error
	next   int
}

func newBattleScript(br *bridge.Bridge, logger *zap.Logger) *battleScript {
	lumina := engine.NewCharacter(1, "Lumina", engine.TeamPlayer, 85)
	caste := engine.NewCharacter(2, "Caste", engine.TeamPlayer, 70)
	vaelgor := engine.NewCharacter(3, "Vaelgor", engine.TeamEnemy, 90)
	thorn := engine.NewCharacter(4, "Thorn", engine.TeamEnemy, 60)

	return &battleScript{
		logger: logger,
		steps: []func() error{
			func() error {
				return br.StartBattle(
					[]*engine.Character{lumina, caste},
					[]*engine.Character{vaelgor, thorn},
				)
			},

			func() error { return br.BeginTurn(1, lumina) },
			func() error {
				_, err := br.ApplyActionEffect(&engine.ActionEffect{
					Name:    "Radiant Lance",
					Damage:  22,
					Ability: &engine.Ability{ID: "radiant_lance", Name: "Radiant Lance", Type: "attack"},
				}, lumina, vaelgor)
				return err
			},
			func() error {
				_, err := br.AddStatusEffect(vaelgor, "status_burn", lumina, 3, 1)
				return err
			},
			func() error { return br.EndTurn(1) },

			func() error { return br.BeginTurn(2, vaelgor) },
			func() error {
				_, err := br.PerformAutoAttack(vaelgor, caste)
				return err
			},
			func() error { return br.EndTurn(2) },

			func() error { return br.BeginTurn(3, caste) },
			func() error {
				_, err := br.ApplyHealing(caste, 12, caste, &engine.Ability{ID: "mend", Name: "Mend", Type: "heal"})
				return err
			},
			func() error {
				_, err := br.AddStatusEffect(caste, "status_regen", nil, 2, 1)
				return err
			},
			func() error { return br.EndTurn(3) },

			func() error { return br.BeginTurn(4, lumina) },
			func() error {
				_, err := br.ApplyDamage(vaelgor, 70, lumina, nil)
				return err
			},
			func() error {
				_, err := br.RemoveStatusEffect(vaelgor, "status_burn")
				return err
			},
			func() error { return br.EndTurn(4) },

			func() error { return br.EndBattle("player") },
		},
	}
}

// Done reports whether every step has run.
func (s *battleScript) Done() bool {
	return s.next >= len(s.steps)
}

// Step runs the next scripted action on the caller's goroutine.
func (s *battleScript) Step() {
	if s.Done() {
		return
	}
	step := s.steps[s.next]
	s.next++
	if err := step(); err != nil {
		s.logger.Warn("scripted step failed", zap.Error(err))
	}
}

// initLogger initializes the zap logger based on configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
