package publisher

import (
	"context"
	"time"

	"leadscout/worker/logger"
)

// Event keys published to the stream.
const (
	EventLeadCaptured  = "lead_captured"
	EventPageExtracted = "page_extracted"
)

// Publisher represents a service for publishing messages
type Publisher interface {
	// Publish publishes a message to a stream under an event key
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}

// NopPublisher discards every event. Used when the event stream is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(string, []byte) error { return nil }
func (NopPublisher) TrimStreams() error           { return nil }
func (NopPublisher) Close() error                 { return nil }

// StartTrimLoop trims the publisher's streams on a fixed interval until the
// context is cancelled. Keeps stream length bounded between restarts.
func StartTrimLoop(ctx context.Context, p Publisher, interval time.Duration) {
	log := logger.ForPublisher()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := p.TrimStreams(); err != nil {
					log.Error().Err(err).Msg("Failed to trim streams")
					continue
				}
				log.Debug().Msg("Streams trimmed")
			}
		}
	}()
}
