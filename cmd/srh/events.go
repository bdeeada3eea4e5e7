package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"srh-intent/pkg/events"
	pktNats "srh-intent/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var eventsFlags struct {
	eventType, durable string
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Follow classification events published on NATS",
	Long: `Prints QUERY_CLASSIFIED, QUERY_CLASSIFICATION_FAILED and RUN_COMPLETED events
as a classify run publishes them. Requires NATS_URL.

Example:
  srh events --type QUERY_CLASSIFICATION_FAILED`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.App.NatsURL == "" {
			return errors.New("NATS_URL is not set")
		}

		ctx, stop := signalContext()
		defer stop()

		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, log)
		if err != nil {
			return err
		}
		defer sub.Close()

		return sub.Subscribe(ctx, eventsFlags.eventType, eventsFlags.durable, printEvent)
	},
}

func init() {
	eventsCmd.Flags().StringVarP(&eventsFlags.eventType, "type", "t", "*", "event type to follow, * for all")
	eventsCmd.Flags().StringVar(&eventsFlags.durable, "durable", "", "durable consumer name to resume from")
}

func printEvent(_ context.Context, e events.Event) error {
	b, err := json.Marshal(e.Payload())
	if err != nil {
		return err
	}
	head := fmt.Sprintf("%s %s", e.Timestamp().Format("15:04:05"), e.EventType())
	switch e.EventType() {
	case events.TypeQueryClassificationFailed:
		color.Red("%s", head)
	case events.TypeRunCompleted:
		color.Cyan("%s", head)
	default:
		color.Green("%s", head)
	}
	fmt.Printf("    %s\n", b)
	return nil
}
