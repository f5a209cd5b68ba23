package worker

// email_worker.go
// Processes email jobs from QueueEmail. Sends PDF receipts to customer
// emails via SMTP, guarded by the circuit breaker so a downed relay does
// not tie up the pool. Jobs that exhaust all retries land in the DLQ.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"vendafacil/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxEmailAttempts = 3

// EmailJobPayload is the job envelope sent to QueueEmail. Attempts
// accumulates across DLQ round trips so the requeue cron can give up.
type EmailJobPayload struct {
	ToEmail  string `json:"to_email"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	PDFPath  string `json:"pdf_path"`
	Attempts int    `json:"attempts,omitempty"`
}

type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb, rdb: rdb}
}

// Process sends an email with the PDF receipt as attachment.
// Retries with exponential backoff; if the circuit is open the job goes
// straight to the DLQ so the requeue cron can pick it up later.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return
	}

	sendErr := withRetry(ctx, maxEmailAttempts, func(attempt int) error {
		err := w.cb.Execute(func() error {
			return w.mailer.SendRecibo(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
		})
		if err != nil {
			if errors.Is(err, infra.ErrCircuitOpen) {
				return err
			}
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("to", payload.ToEmail).
				Msg("email_worker: send attempt failed, retrying")
		}
		return err
	})

	if sendErr != nil {
		log.Error().Err(sendErr).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		payload.Attempts += maxEmailAttempts
		data, err := json.Marshal(payload)
		if err != nil {
			data = raw
		}
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", data, sendErr.Error(), payload.Attempts)
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: recibo sent successfully")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			if errors.Is(err, infra.ErrCircuitOpen) {
				return err
			}
			continue
		}
		return nil
	}
	return lastErr
}
