package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/usario/creators-services/internal/events"
)

var tables []string

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Tail the change feed and log every committed change",
	Run: func(cmd *cobra.Command, args []string) {

		commonSetUp()

		if appCfg.Pulsar.URL == "" {
			log.Fatal().Msg("No Pulsar URL configured")
		}

		consumer, err := events.NewEventConsumer(appCfg.Pulsar.URL, appCfg.Pulsar.TopicConsumer, appCfg.Pulsar.Subscription)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event consumer")
		}
		defer consumer.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		filter := make(map[string]bool, len(tables))
		for _, t := range tables {
			filter[t] = true
		}

		log.Info().Strs("tables", tables).Msg("Waiting for change events...")
		for {
			msg, err := consumer.ReceiveMessage(ctx)
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info().Msg("Consumer stopped")
				return
			}
			if err != nil {
				log.Error().Err(err).Msg("Error receiving message")
				continue
			}

			event, err := events.DecodeChangeEvent(msg.Payload())
			if err != nil {
				// Malformed payloads go to the dead letter topic
				log.Error().Err(err).Str("payload", string(msg.Payload())).Msg("Failed to decode change event")
				consumer.Nack(msg)
				continue
			}

			if len(filter) == 0 || filter[event.Table] {
				log.Info().Str("table", event.Table).Str("type", event.Type).
					Time("commit_timestamp", event.CommitTimestamp).
					Interface("record", event.Record).Msg("Change event")
			}
			consumer.Ack(msg)
		}
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
	consumeCmd.Flags().StringSliceVar(&tables, "table", nil,
		"only log events for these tables (repeatable)")
}
