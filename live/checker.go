// Package live turns a channel roster into the subset currently broadcasting.
package live

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/onnwee/streamwatch/telemetry"
	"github.com/onnwee/streamwatch/twitchapi"
)

// Record describes one live channel as reported by the platform.
type Record struct {
	Username  string `json:"username"`
	Title     string `json:"title"`
	Game      string `json:"game"`
	StartedAt string `json:"started_at"`
}

// Checker queries the Helix streams endpoint in roster order, one request
// per batch of at most BatchSize logins.
type Checker struct {
	Helix     *twitchapi.HelixClient
	BatchSize int           // defaults to twitchapi.MaxLoginsPerRequest
	Limiter   *rate.Limiter // optional; nil disables rate limiting
}

func (c *Checker) batchSize() int {
	if c.BatchSize > 0 && c.BatchSize <= twitchapi.MaxLoginsPerRequest {
		return c.BatchSize
	}
	return twitchapi.MaxLoginsPerRequest
}

// Check partitions logins into consecutive batches and aggregates the live
// entries in batch order, preserving the platform's response order within a
// batch. A failed batch contributes zero records and the remaining batches
// are still checked; one bad response must not block the rest of the roster.
func (c *Checker) Check(ctx context.Context, logins []string) []Record {
	size := c.batchSize()
	records := make([]Record, 0, len(logins))
	log := telemetry.LoggerWithCorr(ctx)

	for start := 0; start < len(logins); start += size {
		end := start + size
		if end > len(logins) {
			end = len(logins)
		}
		batch := logins[start:end]

		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				log.Warn("rate limiter wait aborted", "err", err)
				return records
			}
		}

		bctx, span := telemetry.StartSpan(ctx, "live", "checker.batch",
			attribute.Int("batch.offset", start),
			attribute.Int("batch.size", len(batch)),
		)
		if telemetry.BatchesTotal != nil {
			telemetry.BatchesTotal.Inc()
		}
		streams, err := c.Helix.GetStreams(bctx, batch)
		if err != nil {
			telemetry.RecordError(span, err)
			span.End()
			if telemetry.BatchFailures != nil {
				telemetry.BatchFailures.Inc()
			}
			log.Warn("streams batch failed, skipping", "offset", start, "size", len(batch), "err", err)
			continue
		}
		telemetry.SetSpanSuccess(span)
		span.End()

		for _, s := range streams {
			records = append(records, Record{
				Username:  s.UserName,
				Title:     s.Title,
				Game:      s.GameName,
				StartedAt: s.StartedAt,
			})
		}
	}
	return records
}
