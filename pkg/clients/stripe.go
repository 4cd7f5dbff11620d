package clients

import (
	"github.com/DRSN-tech/go-marketplace/internal/cfg"
	"github.com/stripe/stripe-go/v76/client"
)

// NewStripeClient создаёт клиент Stripe с явно переданным ключом.
// Глобальный stripe.Key не используется.
func NewStripeClient(cfg *cfg.StripeCfg) *client.API {
	return client.New(cfg.SecretKey, nil)
}
