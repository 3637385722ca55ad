// MQTT Gateway - bidirectional message translation engine
//
// This is the main entry point for the gateway application. The gateway
// connects a device interface to an MQTT smart-home bus, translating
// between the bus vocabulary and the interface's internal keywords
// through a mapping table:
//   - Inbound: (topic, payload) pairs are decoded into internal messages
//   - Outbound: internal messages are encoded back onto the bus
//   - Vocabulary: per-characteristic keyword maps with none, loose or
//     strict resolution policies, hot-reloadable from the mapping file
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/seftonlabs/mqttgateway/internal/gateway"
	"github.com/seftonlabs/mqttgateway/internal/infrastructure/config"
	"github.com/seftonlabs/mqttgateway/internal/infrastructure/influxdb"
	"github.com/seftonlabs/mqttgateway/internal/infrastructure/logging"
	"github.com/seftonlabs/mqttgateway/internal/infrastructure/mqtt"
	"github.com/seftonlabs/mqttgateway/internal/interfaces/dummy"
	"github.com/seftonlabs/mqttgateway/internal/mapping"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel the context on interrupt signals for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting MQTT gateway",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Build the mapping table and codec
	table, err := loadTable(cfg)
	if err != nil {
		return fmt.Errorf("loading mapping table: %w", err)
	}
	codec := mapping.NewCodec(table, cfg.Gateway.Name)
	log.Info("mapping table loaded",
		"enabled", cfg.Mapping.Enabled,
		"root", table.Root(),
		"topics", len(table.Topics()),
	)

	// Connect to the MQTT broker, announcing an unexpected death through
	// the broker's Last Will mechanism
	mqttClient, err := mqtt.Connect(cfg.MQTT, cfg.GetMQTTClientID(), buildWill(codec, cfg.Gateway.Name, log))
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.GetMQTTClientID(),
	)

	// Set up MQTT logging callbacks
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var recorder gateway.StatsRecorder
	if cfg.Telemetry.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.Telemetry)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
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
			"url", cfg.Telemetry.URL,
			"org", cfg.Telemetry.Org,
			"bucket", cfg.Telemetry.Bucket,
		)
		recorder = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	// Create the gateway around the dummy interface
	gw, err := gateway.New(gateway.Options{
		Name:            cfg.Gateway.Name,
		Transport:       mqttClient,
		Codec:           codec,
		Interface:       dummy.New(log),
		InterfaceParams: cfg.Interface,
		Logger:          log,
		QoS:             byte(cfg.MQTT.QoS),
		LoopInterval:    cfg.GetLoopInterval(),
		Stats:           recorder,
	})
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	// Watch the mapping file for live reloads (optional)
	if cfg.Mapping.Enabled && cfg.Mapping.Watch {
		reloader, reloadErr := gateway.NewReloader(gw, log, cfg.Mapping.File, cfg.Gateway.Name)
		if reloadErr != nil {
			return fmt.Errorf("creating reloader: %w", reloadErr)
		}
		if startErr := reloader.Start(); startErr != nil {
			return fmt.Errorf("starting reloader: %w", startErr)
		}
		defer reloader.Stop()
	}

	log.Info("initialisation complete, entering message loop")

	return gw.Run(ctx)
}

// getConfigPath returns the configuration file path.
// Uses MQTTGW_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MQTTGW_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadTable builds the mapping table from configuration.
//
// With mapping enabled the table comes from the mapping file and is
// fully validated before use. Otherwise the no-map fallback table is
// built from the configured root and topics, with every characteristic
// on the identity policy.
//
// Parameters:
//   - cfg: Application configuration
//
// Returns:
//   - *mapping.Table: The table to translate through
//   - error: If the mapping file cannot be read or fails validation
func loadTable(cfg *config.Config) (*mapping.Table, error) {
	if !cfg.Mapping.Enabled {
		return mapping.NoMapTable(cfg.Mapping.Root, cfg.Mapping.Topics), nil
	}

	data, err := os.ReadFile(cfg.Mapping.File)
	if err != nil {
		return nil, fmt.Errorf("reading mapping file: %w", err)
	}
	def, err := mapping.LoadDefinition(data)
	if err != nil {
		return nil, err
	}
	return mapping.NewTable(def)
}

// buildWill encodes the gateway's Last Will message: a status report the
// broker publishes on the gateway's behalf if it dies unexpectedly.
//
// The will must pass through the same vocabulary as every other
// outbound message. If the mapping table cannot resolve it (a strict
// action map without the keyword), the gateway connects without a will
// rather than publish untranslated vocabulary.
func buildWill(codec *mapping.Codec, name string, log *logging.Logger) *mqtt.Will {
	topic, payload, err := codec.Encode(&mapping.Message{
		Kind:    mapping.Status,
		Gateway: name,
		Action:  "gateway_offline",
	})
	if err != nil {
		log.Warn("will message does not resolve through the mapping table, connecting without one",
			"error", err)
		return nil
	}
	return &mqtt.Will{Topic: topic, Payload: payload}
}
