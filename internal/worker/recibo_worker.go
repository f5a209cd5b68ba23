package worker

// recibo_worker.go
// Processes receipt jobs from QueueRecibo: generates the PDF receipt for a
// completed sale and, when the customer left an email, enqueues the delivery.

import (
	"context"
	"encoding/json"
	"fmt"

	"vendafacil/internal/infra"
	"vendafacil/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReciboJobPayload is the job envelope sent to QueueRecibo.
type ReciboJobPayload struct {
	VendaID      string  `json:"venda_id"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

// ReciboWorker generates PDF receipts for completed sales.
type ReciboWorker struct {
	vendaRepo      repository.VendaRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	nomeLoja       string
}

func NewReciboWorker(
	vendaRepo repository.VendaRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
	nomeLoja string,
) *ReciboWorker {
	return &ReciboWorker{
		vendaRepo:      vendaRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		nomeLoja:       nomeLoja,
	}
}

// Process handles a single receipt job:
//  1. Parse ReciboJobPayload from the job envelope
//  2. Fetch the Venda (with items) from DB
//  3. Generate the PDF receipt
//  4. Optionally enqueue an email job with the PDF attached
func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}

	vendaID, err := uuid.Parse(payload.VendaID)
	if err != nil {
		log.Error().Str("venda_id", payload.VendaID).Msg("recibo_worker: invalid venda_id")
		return
	}

	venda, err := w.vendaRepo.FindByID(ctx, vendaID)
	if err != nil {
		log.Error().Err(err).Str("venda_id", payload.VendaID).Msg("recibo_worker: venda not found")
		return
	}

	pdfPath, err := infra.GenerateReciboPDF(venda, w.nomeLoja, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("venda_id", payload.VendaID).Msg("recibo_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("venda_id", payload.VendaID).Msg("recibo_worker: PDF generated")

	if payload.ClienteEmail != nil && *payload.ClienteEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.ClienteEmail,
			Subject: fmt.Sprintf("%s — Recibo Nº %d", w.nomeLoja, venda.NumeroTicket),
			Body: fmt.Sprintf("Olá!\n\nSegue em anexo o recibo da sua compra.\nTotal: R$ %s\n\nObrigado pela preferência!",
				venda.ValorTotal.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.ClienteEmail).Msg("recibo_worker: failed to enqueue email")
		} else {
			log.Info().Str("email", *payload.ClienteEmail).Msg("recibo_worker: email job enqueued")
		}
	}
}
