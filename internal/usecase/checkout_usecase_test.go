package usecase

import (
	"context"
	"testing"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCheckoutCfg = CheckoutConfig{
	Currency:    "usd",
	PlatformFee: 100,
	SuccessURL:  "https://shop.example/success",
	CancelURL:   "https://shop.example/cancel",
}

func newCheckoutUC(store *memStore, processor *MockProcessor) *CheckoutUseCase {
	products := NewProductUC(memProducts{store}, &MockImages{}, NewMockCache(), logger.NewNop())
	return NewCheckoutUC(products, memAccounts{store}, processor, testCheckoutCfg, logger.NewNop())
}

func TestCreateSession(t *testing.T) {
	store := newMemStore()
	seller := store.addAccount(domain.Account{Email: "s@b.com", Username: "seller", StripeAccountID: "acct_seller"})
	store.addProduct(domain.Product{ID: 42, OwnerID: seller.ID, Slug: "ebook", Name: "Ebook", Price: 1500, IsActive: true})

	processor := &MockProcessor{}
	uc := newCheckoutUC(store, processor)

	res, err := uc.CreateSession(context.Background(), "ebook")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", res.ID)

	req := processor.LastCheckout
	require.NotNil(t, req)
	assert.Equal(t, int64(42), req.ProductID)
	assert.Equal(t, "Ebook", req.ProductName)
	assert.Equal(t, int64(1500), req.UnitAmount)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, int64(100), req.ApplicationFee)
	assert.Equal(t, "acct_seller", req.Destination)
	assert.Equal(t, testCheckoutCfg.SuccessURL, req.SuccessURL)
	assert.Equal(t, testCheckoutCfg.CancelURL, req.CancelURL)
	assert.Equal(t, map[string]string{ProductMetadataKey: "42"}, req.Metadata)
}

func TestCreateSession_Refusals(t *testing.T) {
	tests := []struct {
		name    string
		seller  domain.Account
		active  bool
		slug    string
		wantErr error
	}{
		{
			name:    "unknown product",
			seller:  domain.Account{Email: "s@b.com", Username: "s", StripeAccountID: "acct_1"},
			active:  true,
			slug:    "missing",
			wantErr: e.ErrProductNotFound,
		},
		{
			name:    "inactive product",
			seller:  domain.Account{Email: "s@b.com", Username: "s", StripeAccountID: "acct_1"},
			active:  false,
			slug:    "ebook",
			wantErr: e.ErrProductInactive,
		},
		{
			name:    "seller without payout account",
			seller:  domain.Account{Email: "s@b.com", Username: "s"},
			active:  true,
			slug:    "ebook",
			wantErr: e.ErrSellerNotOnboarded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			seller := store.addAccount(tt.seller)
			store.addProduct(domain.Product{OwnerID: seller.ID, Slug: "ebook", Name: "Ebook", Price: 1500, IsActive: tt.active})

			processor := &MockProcessor{}
			uc := newCheckoutUC(store, processor)

			_, err := uc.CreateSession(context.Background(), tt.slug)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, processor.LastCheckout)
		})
	}
}

func TestCreateSession_ProcessorError(t *testing.T) {
	store := newMemStore()
	seller := store.addAccount(domain.Account{Email: "s@b.com", Username: "seller", StripeAccountID: "acct_seller"})
	store.addProduct(domain.Product{OwnerID: seller.ID, Slug: "ebook", Name: "Ebook", Price: 1500, IsActive: true})

	processor := &MockProcessor{
		CheckoutFunc: func(context.Context, *CheckoutSessionReq) (*CheckoutSessionRes, error) {
			return nil, e.ErrProcessorUnavailable
		},
	}

	_, err := newCheckoutUC(store, processor).CreateSession(context.Background(), "ebook")
	require.ErrorIs(t, err, e.ErrProcessorUnavailable)
}
