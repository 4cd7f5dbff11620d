package http

import (
	"net/http"

	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	checkoutUsecase usecase.CheckoutUC
	logger          logger.Logger
}

func NewCheckoutHandler(checkoutUsecase usecase.CheckoutUC, logger logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkoutUsecase: checkoutUsecase, logger: logger}
}

// createSession
//
//	@Summary		Создание платёжной сессии
//	@Description	Создаёт сессию оплаты товара у платёжного провайдера
//	@Tags			checkout
//	@Produce		json
//	@Param			slug	path		string				true	"Slug товара"
//	@Success		200		{object}	CheckoutResponse	"Идентификатор сессии"
//	@Failure		404		{object}	ErrorResponse		"Товар не найден"
//	@Failure		409		{object}	ErrorResponse		"Товар недоступен для покупки"
//	@Failure		503		{object}	ErrorResponse		"Провайдер недоступен"
//	@Router			/checkout/{slug} [post]
func (h *CheckoutHandler) createSession(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	session, err := h.checkoutUsecase.CreateSession(r.Context(), slug)
	if err != nil {
		h.logger.Warnf("checkout for %s failed: %s", slug, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, CheckoutResponse{ID: session.ID})
}
