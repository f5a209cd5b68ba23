package worker

// requeue_cron.go
// Background goroutine that periodically drains the email DLQ back into
// QueueEmail once the SMTP circuit breaker has recovered. Entries that
// already burned through the requeue allowance stay in the DLQ for manual
// inspection.

import (
	"context"
	"encoding/json"
	"time"

	"vendafacil/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	requeueTickInterval = 30 * time.Second
	requeueBatchSize    = 10
	maxRequeueAttempts  = 9 // three DLQ round trips of three sends each
)

// RequeueCronConfig holds the dependencies for the requeue goroutine.
type RequeueCronConfig struct {
	RDB *redis.Client
	CB  *infra.CircuitBreaker
}

// StartRequeueCron launches a background goroutine that ticks every 30s and
// re-enqueues failed email jobs while the circuit breaker allows traffic.
// It respects the context for graceful shutdown.
func StartRequeueCron(ctx context.Context, cfg RequeueCronConfig) {
	go func() {
		ticker := time.NewTicker(requeueTickInterval)
		defer ticker.Stop()

		log.Info().Msg("requeue_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("requeue_cron: shutting down")
				return
			case <-ticker.C:
				processRequeues(ctx, cfg)
			}
		}
	}()
}

func processRequeues(ctx context.Context, cfg RequeueCronConfig) {
	// If CB is open the relay is still down, skip the tick entirely
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("requeue_cron: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueEmail
	requeued := 0

	for i := 0; i < requeueBatchSize; i++ {
		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if err != nil {
			break // queue drained or redis unavailable
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("requeue_cron: corrupt DLQ entry, discarding")
			continue
		}

		if entry.Attempts >= maxRequeueAttempts {
			// Put it back at the head so it stays visible for manual handling
			if err := cfg.RDB.LPush(ctx, dlqKey, raw).Err(); err != nil {
				log.Error().Err(err).Msg("requeue_cron: failed to return exhausted entry to DLQ")
			}
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("requeue_cron: failed to marshal job")
			continue
		}
		if err := cfg.RDB.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", entry.OriginalQueue).Msg("requeue_cron: failed to requeue job")
			SendToDLQ(ctx, cfg.RDB, entry.OriginalQueue, entry.JobType, entry.Payload, entry.Reason, entry.Attempts)
			continue
		}
		requeued++
	}

	if requeued > 0 {
		log.Info().Int("count", requeued).Msg("requeue_cron: jobs returned to queue")
	}
}
