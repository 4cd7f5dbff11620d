package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
)

const signatureHeader = "Stripe-Signature"

type WebhookHandler struct {
	webhookUsecase usecase.WebhookUC
	logger         logger.Logger
}

func NewWebhookHandler(webhookUsecase usecase.WebhookUC, logger logger.Logger) *WebhookHandler {
	return &WebhookHandler{webhookUsecase: webhookUsecase, logger: logger}
}

// handleStripeEvent
//
//	@Summary		Уведомление платёжного провайдера
//	@Description	Проверяет подпись и выдаёт доступ к оплаченному товару. Тело ответа всегда пустое.
//	@Tags			webhooks
//	@Accept			json
//	@Param			Stripe-Signature	header	string	true	"Подпись уведомления"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/webhooks/stripe [post]
func (h *WebhookHandler) handleStripeEvent(w http.ResponseWriter, r *http.Request) {
	const maxPayloadSize = 65536

	r.Body = http.MaxBytesReader(w, r.Body, maxPayloadSize)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warnf("%d webhook body rejected: %v", http.StatusBadRequest, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = h.webhookUsecase.HandleEvent(r.Context(), payload, r.Header.Get(signatureHeader))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, e.ErrSignatureMismatch), errors.Is(err, e.ErrInvalidPayload):
		h.logger.Warnf("%d webhook rejected: %v", http.StatusBadRequest, err)
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, e.ErrProductNotFound):
		// Повторная доставка не поможет, поэтому уведомление подтверждается.
		h.logger.Errorf(err, "webhook references unknown product")
		w.WriteHeader(http.StatusOK)
	default:
		h.logger.Errorf(err, "webhook processing failed")
		w.WriteHeader(http.StatusInternalServerError)
	}
}
