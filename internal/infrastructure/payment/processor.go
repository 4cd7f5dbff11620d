package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProcessor создаёт платёжные сессии и payout-аккаунты через Stripe Connect.
// Клиент передаётся явно, глобальная конфигурация stripe не используется.
type StripeProcessor struct {
	api    *client.API
	logger logger.Logger
}

func NewStripeProcessor(api *client.API, logger logger.Logger) *StripeProcessor {
	return &StripeProcessor{
		api:    api,
		logger: logger,
	}
}

// CreateCheckoutSession создаёт сессию оплаты одного товара с destination charge на автора.
func (s *StripeProcessor) CreateCheckoutSession(ctx context.Context, req *usecase.CheckoutSessionReq) (*usecase.CheckoutSessionRes, error) {
	const op = "StripeProcessor.CreateCheckoutSession"

	params := newCheckoutSessionParams(req)
	params.Context = ctx

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, e.Wrap(op, mapStripeError(err))
	}

	return &usecase.CheckoutSessionRes{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// CreatePayoutAccount создаёт express-аккаунт Connect и возвращает его id.
func (s *StripeProcessor) CreatePayoutAccount(ctx context.Context, req *usecase.PayoutAccountReq) (string, error) {
	const op = "StripeProcessor.CreatePayoutAccount"

	params := newPayoutAccountParams(req)
	params.Context = ctx

	account, err := s.api.Accounts.New(params)
	if err != nil {
		return "", e.Wrap(op, mapStripeError(err))
	}

	s.logger.Infof("payout account %s created", account.ID)
	return account.ID, nil
}

func newCheckoutSessionParams(req *usecase.CheckoutSessionReq) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:             stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerCreation: stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways)),
		SuccessURL:       stripe.String(req.SuccessURL),
		CancelURL:        stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(req.ApplicationFee),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(req.Destination),
			},
		},
	}

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	return params
}

func newPayoutAccountParams(req *usecase.PayoutAccountReq) *stripe.AccountParams {
	return &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(req.Email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
	}
}

// mapStripeError отделяет недоступность провайдера от отказов по существу запроса.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return fmt.Errorf("%w: %w", e.ErrProcessorUnavailable, err)
	}

	if stripeErr.HTTPStatusCode >= http.StatusInternalServerError ||
		stripeErr.HTTPStatusCode == http.StatusTooManyRequests ||
		stripeErr.Type == stripe.ErrorTypeAPI {
		return fmt.Errorf("%w: %w", e.ErrProcessorUnavailable, err)
	}

	return err
}
