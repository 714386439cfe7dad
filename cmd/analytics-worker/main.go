// analytics-worker consumes patient lifecycle events from Kafka and logs
// them. It stands in for the downstream analytics pipeline.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"

	"github.com/carelink/carelink/internal/config"
	"github.com/carelink/carelink/internal/platform/events"
)

const consumerGroup = "analytics-service"

func main() {
	rootCmd := &cobra.Command{
		Use:   "analytics-worker",
		Short: "Patient event analytics consumer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if len(cfg.KafkaBrokers) == 0 {
		logger.Fatal().Msg("KAFKA_BROKERS is required")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		GroupID: consumerGroup,
		Topic:   cfg.KafkaPatientTopic,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Strs("brokers", cfg.KafkaBrokers).
		Str("topic", cfg.KafkaPatientTopic).
		Str("group", consumerGroup).
		Msg("consuming patient events")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info().Msg("worker stopped")
				return nil
			}
			logger.Error().Err(err).Msg("read message failed")
			continue
		}

		var evt events.PatientCreated
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			// Malformed events are dropped; the offset is already committed.
			logger.Error().Err(err).
				Str("raw", string(msg.Value)).
				Msg("malformed patient event dropped")
			continue
		}

		logger.Info().
			Str("patient_id", evt.PatientID).
			Str("name", evt.Name).
			Str("email", evt.Email).
			Int64("offset", msg.Offset).
			Msg("patient created event received")
	}
}
