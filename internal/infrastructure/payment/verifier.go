package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeVerifier проверяет подпись Stripe-Signature и разбирает уведомление.
type StripeVerifier struct {
	secret    string
	tolerance time.Duration
}

func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{
		secret:    secret,
		tolerance: webhook.DefaultTolerance,
	}
}

// Verify возвращает e.ErrSignatureMismatch, если подпись не сходится,
// и e.ErrInvalidPayload, если тело нельзя разобрать.
func (v *StripeVerifier) Verify(payload []byte, signature string) (*domain.PaymentEvent, error) {
	const op = "StripeVerifier.Verify"

	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureError(err) {
			return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrSignatureMismatch, err))
		}
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrInvalidPayload, err))
	}

	res := &domain.PaymentEvent{
		ID:   event.ID,
		Type: domain.PaymentEventType(event.Type),
	}

	if event.Data == nil {
		return nil, e.Wrap(op, e.ErrInvalidPayload)
	}

	switch res.Type {
	case domain.EventCheckoutSessionCompleted:
		res.Checkout, err = parseCheckoutCompleted(event.Data.Raw)
	case domain.EventAccountUpdated:
		res.Payout, err = parseAccountUpdated(event.Data.Raw)
	}
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}

func parseCheckoutCompleted(raw json.RawMessage) (*domain.CheckoutCompleted, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrInvalidPayload, err)
	}

	rawID, ok := session.Metadata[usecase.ProductMetadataKey]
	if !ok {
		return nil, fmt.Errorf("%w: metadata.%s is missing", e.ErrInvalidPayload, usecase.ProductMetadataKey)
	}

	productID, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata.%s: %w", e.ErrInvalidPayload, usecase.ProductMetadataKey, err)
	}

	res := &domain.CheckoutCompleted{
		SessionID: session.ID,
		ProductID: productID,
		Email:     session.CustomerEmail,
	}
	if session.Customer != nil {
		res.CustomerID = session.Customer.ID
	}
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		res.Email = session.CustomerDetails.Email
	}

	return res, nil
}

func parseAccountUpdated(raw json.RawMessage) (*domain.PayoutAccountUpdated, error) {
	var account stripe.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrInvalidPayload, err)
	}

	if account.ID == "" {
		return nil, fmt.Errorf("%w: account id is missing", e.ErrInvalidPayload)
	}

	return &domain.PayoutAccountUpdated{
		AccountID:      account.ID,
		PayoutsEnabled: account.PayoutsEnabled,
	}, nil
}
