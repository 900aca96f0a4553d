// Birch Hill Core - room climate API.
//
// This is the main entry point for the birchhill service. It serves rooms and
// their temperature readings over GraphQL, stores state in SQLite, and
// optionally ingests readings from MQTT and mirrors them to InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	_ "github.com/nerrad567/birchhill-core/migrations"

	"github.com/nerrad567/birchhill-core/internal/api"
	"github.com/nerrad567/birchhill-core/internal/infrastructure/config"
	"github.com/nerrad567/birchhill-core/internal/infrastructure/database"
	"github.com/nerrad567/birchhill-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/birchhill-core/internal/infrastructure/logging"
	"github.com/nerrad567/birchhill-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/birchhill-core/internal/ingest"
	"github.com/nerrad567/birchhill-core/internal/reading"
	"github.com/nerrad567/birchhill-core/internal/resolver"
	"github.com/nerrad567/birchhill-core/internal/room"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component, blocks until ctx is cancelled, then tears
// everything down in reverse order through the deferred closers.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Birch Hill Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := loadConfig(getConfigPath())
	if err != nil {
		return err
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	rooms := room.NewSQLiteRepository(db.DB)
	readings := reading.NewSQLiteRepository(db.DB)
	res := resolver.New(rooms, readings, log)

	// InfluxDB first so ingestion can mirror from its first message.
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB mirroring disabled")
	}

	apiDeps := api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Resolver: res,
		Database: db,
		Version:  version,
	}
	if influxClient != nil {
		apiDeps.InfluxDB = influxClient
	}

	if cfg.MQTT.Enabled {
		mqttClient, ingester, startErr := startIngestion(ctx, cfg, readings, influxClient, log)
		if startErr != nil {
			return startErr
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		defer func() {
			if stopErr := ingester.Stop(); stopErr != nil {
				log.Error("error stopping ingestion", "error", stopErr)
			}
		}()
		apiDeps.MQTT = mqttClient
	} else {
		log.Info("MQTT ingestion disabled")
	}

	server, err := api.New(apiDeps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred closers run in reverse: API, ingestion, MQTT, InfluxDB, database.
	return nil
}

// startIngestion connects to the broker and subscribes the ingester.
func startIngestion(
	ctx context.Context,
	cfg *config.Config,
	readings reading.Repository,
	influxClient *influxdb.Client,
	log *logging.Logger,
) (*mqtt.Client, *ingest.Ingester, error) {
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	mqttClient.SetLogger(log.With("component", "mqtt"))
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT connected")
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	deps := ingest.Deps{
		Subscriber: mqttClient,
		Readings:   readings,
		Logger:     log,
		Topics:     mqttClient.Topics(),
		QoS:        byte(cfg.MQTT.QoS), // #nosec G115 -- validated to 0..2
	}
	// A nil *influxdb.Client must not become a non-nil Mirror.
	if influxClient != nil {
		deps.Mirror = influxClient
	}

	ingester, err := ingest.New(deps)
	if err == nil {
		err = ingester.Start(ctx)
	}
	if err != nil {
		_ = mqttClient.Close()
		return nil, nil, fmt.Errorf("starting ingestion: %w", err)
	}
	return mqttClient, ingester, nil
}

// getConfigPath returns BIRCHHILL_CONFIG if set, otherwise the default path.
func getConfigPath() string {
	if path := os.Getenv("BIRCHHILL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig reads path. When the default file is absent the built-in
// defaults plus environment overrides are used instead; an explicitly
// configured path must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && os.Getenv("BIRCHHILL_CONFIG") == "" {
		cfg, err = config.Default()
		if err != nil {
			return nil, fmt.Errorf("loading default config: %w", err)
		}
		return cfg, nil
	}
	return nil, fmt.Errorf("loading config: %w", err)
}
