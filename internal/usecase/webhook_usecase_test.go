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

type webhookFixture struct {
	store    *memStore
	tx       *memTxManager
	verifier *MockVerifier
	mailer   *MockMailer
	uc       *WebhookUseCase
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()

	store := newMemStore()
	f := &webhookFixture{
		store:    store,
		tx:       &memTxManager{store: store},
		verifier: &MockVerifier{},
		mailer:   &MockMailer{},
	}
	f.uc = NewWebhookUC(
		f.verifier,
		memProducts{store},
		memAccounts{store},
		memLibraries{store},
		memDeferred{store},
		memOutbox{store},
		f.tx,
		f.mailer,
		logger.NewNop(),
	)

	store.addProduct(domain.Product{ID: 42, OwnerID: 1000, Slug: "ebook-42", Name: "Ebook", Price: 500, IsActive: true})
	return f
}

func checkoutEvent(customerID, email string, productID int64) *domain.PaymentEvent {
	return &domain.PaymentEvent{
		ID:   "evt_1",
		Type: domain.EventCheckoutSessionCompleted,
		Checkout: &domain.CheckoutCompleted{
			SessionID:  "cs_1",
			ProductID:  productID,
			CustomerID: customerID,
			Email:      email,
		},
	}
}

func strPtr(s string) *string { return &s }

func TestHandleEvent_GrantsByCustomerID(t *testing.T) {
	f := newWebhookFixture(t)
	buyer := f.store.addAccount(domain.Account{Email: "buyer@example.com", Username: "buyer", StripeCustomerID: strPtr("cus_1")})
	f.verifier.Event = checkoutEvent("cus_1", "other@example.com", 42)

	err := f.uc.HandleEvent(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	assert.Equal(t, []int64{42}, f.store.libraryOf(buyer.ID))
	assert.Empty(t, f.mailer.Sent)
	assert.Empty(t, f.store.deferredPurchases())

	events := f.store.outboxEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EntitlementGranted, events[0].EventType)
	assert.Equal(t, accountKey(buyer.ID), events[0].AggregateKey)
}

func TestHandleEvent_RedeliveryIsIdempotent(t *testing.T) {
	f := newWebhookFixture(t)
	buyer := f.store.addAccount(domain.Account{Email: "buyer@example.com", Username: "buyer", StripeCustomerID: strPtr("cus_1")})
	f.verifier.Event = checkoutEvent("cus_1", "buyer@example.com", 42)

	require.NoError(t, f.uc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	require.NoError(t, f.uc.HandleEvent(context.Background(), []byte("{}"), "sig"))

	assert.Equal(t, []int64{42}, f.store.libraryOf(buyer.ID))
	assert.Len(t, f.store.outboxEvents(), 1)
}

func TestHandleEvent_GrantsByEmailAndBindsCustomer(t *testing.T) {
	f := newWebhookFixture(t)
	buyer := f.store.addAccount(domain.Account{Email: "a@b.com", Username: "ab"})
	f.verifier.Event = checkoutEvent("cus_9", " A@B.com ", 42)

	require.NoError(t, f.uc.HandleEvent(context.Background(), []byte("{}"), "sig"))

	assert.Equal(t, []int64{42}, f.store.libraryOf(buyer.ID))
	bound := f.store.account(buyer.ID)
	require.NotNil(t, bound.StripeCustomerID)
	assert.Equal(t, "cus_9", *bound.StripeCustomerID)
	assert.Empty(t, f.mailer.Sent)
}

func TestHandleEvent_RebindsCustomerOnEmailMatch(t *testing.T) {
	f := newWebhookFixture(t)
	buyer := f.store.addAccount(domain.Account{Email: "a@b.com", Username: "ab", StripeCustomerID: strPtr("cus_old")})
	f.verifier.Event = checkoutEvent("cus_new", "a@b.com", 42)

	require.NoError(t, f.uc.HandleEvent(context.Background(), []byte("{}"), "sig"))

	assert.Equal(t, []int64{42}, f.store.libraryOf(buyer.ID))
	assert.Equal(t, "cus_new", *f.store.account(buyer.ID).StripeCustomerID)
}

func TestHandleEvent_DefersUnmatchedPurchase(t *testing.T) {
	f := newWebhookFixture(t)
	f.verifier.Event = checkoutEvent("cus_1", "a@b.com", 42)

	require.NoError(t, f.uc.HandleEvent(context.Background(), []byte("{}"), "sig"))

	deferred := f.store.deferredPurchases()
	require.Len(t, deferred, 1)
	assert.Equal(t, "a@b.com", deferred[0].Email)
	assert.Equal(t, int64(42), deferred[0].ProductID)
	assert.False(t, deferred[0].IsClaimed())

	assert.Equal(t, []string{"a@b.com"}, f.mailer.Sent)

	events := f.store.outboxEvents()
	require.Len(t, events, 1)
	assert.Equal(t, PurchaseDeferred, events[0].EventType)
	assert.Equal(t, "email:a@b.com", events[0].AggregateKey)
}

func TestHandleEvent_MailFailureDoesNotFail(t *testing.T) {
	f := newWebhookFixture(t)
	f.mailer.Err = ErrMockMailer
	f.verifier.Event = checkoutEvent("", "a@b.com", 42)

	require.NoError(t, f.uc.HandleEvent(context.Background(), []byte("{}"), "sig"))

	assert.Len(t, f.store.deferredPurchases(), 1)
	assert.Len(t, f.mailer.Sent, 1)
}

func TestHandleEvent_VerificationFailureHasNoSideEffects(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "signature mismatch", err: e.ErrSignatureMismatch},
		{name: "invalid payload", err: e.ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWebhookFixture(t)
			f.store.addAccount(domain.Account{Email: "a@b.com", Username: "ab", StripeCustomerID: strPtr("cus_1")})
			f.verifier.Err = tt.err

			err := f.uc.HandleEvent(context.Background(), []byte("{}"), "tampered")
			require.ErrorIs(t, err, tt.err)

			assert.Zero(t, f.tx.calls)
			assert.Empty(t, f.store.outboxEvents())
			assert.Empty(t, f.store.deferredPurchases())
			assert.Empty(t, f.mailer.Sent)
		})
	}
}

func TestHandleEvent_UnknownProduct(t *testing.T) {
	f := newWebhookFixture(t)
	buyer := f.store.addAccount(domain.Account{Email: "a@b.com", Username: "ab", StripeCustomerID: strPtr("cus_1")})
	f.verifier.Event = checkoutEvent("cus_1", "a@b.com", 999)

	err := f.uc.HandleEvent(context.Background(), []byte("{}"), "sig")
	require.ErrorIs(t, err, e.ErrProductNotFound)

	assert.Empty(t, f.store.libraryOf(buyer.ID))
	assert.Empty(t, f.store.outboxEvents())
	assert.Zero(t, f.tx.calls)
}

func TestHandleEvent_EmptyEmailWithoutCustomerMatch(t *testing.T) {
	f := newWebhookFixture(t)
	f.verifier.Event = checkoutEvent("cus_unknown", "", 42)

	err := f.uc.HandleEvent(context.Background(), []byte("{}"), "sig")
	require.ErrorIs(t, err, e.ErrInvalidPayload)

	assert.Empty(t, f.store.deferredPurchases())
	assert.Empty(t, f.mailer.Sent)
}

func TestHandleEvent_RollsBackOnStorageError(t *testing.T) {
	f := newWebhookFixture(t)
	buyer := f.store.addAccount(domain.Account{Email: "a@b.com", Username: "ab"})
	f.store.failAddProduct = ErrMockStorage
	f.verifier.Event = checkoutEvent("cus_9", "a@b.com", 42)

	err := f.uc.HandleEvent(context.Background(), []byte("{}"), "sig")
	require.ErrorIs(t, err, ErrMockStorage)

	// привязка customer id откатывается вместе с остальными записями
	assert.Nil(t, f.store.account(buyer.ID).StripeCustomerID)
	assert.Empty(t, f.store.outboxEvents())
}

func TestHandleEvent_IgnoresOtherEventTypes(t *testing.T) {
	f := newWebhookFixture(t)
	f.verifier.Event = &domain.PaymentEvent{ID: "evt_2", Type: "invoice.paid"}

	require.NoError(t, f.uc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	assert.Zero(t, f.tx.calls)
}

func TestHandleEvent_MissingEventBody(t *testing.T) {
	f := newWebhookFixture(t)
	f.verifier.Event = &domain.PaymentEvent{ID: "evt_3", Type: domain.EventCheckoutSessionCompleted}

	err := f.uc.HandleEvent(context.Background(), []byte("{}"), "sig")
	require.ErrorIs(t, err, e.ErrInvalidPayload)
}

func TestHandleEvent_AccountUpdated(t *testing.T) {
	f := newWebhookFixture(t)
	seller := f.store.addAccount(domain.Account{Email: "s@b.com", Username: "seller", StripeAccountID: "acct_1"})

	f.verifier.Event = &domain.PaymentEvent{
		ID:     "evt_4",
		Type:   domain.EventAccountUpdated,
		Payout: &domain.PayoutAccountUpdated{AccountID: "acct_1", PayoutsEnabled: true},
	}
	require.NoError(t, f.uc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	assert.True(t, f.store.account(seller.ID).PayoutsEnabled)

	f.verifier.Event = &domain.PaymentEvent{
		ID:     "evt_5",
		Type:   domain.EventAccountUpdated,
		Payout: &domain.PayoutAccountUpdated{AccountID: "acct_unknown", PayoutsEnabled: true},
	}
	require.NoError(t, f.uc.HandleEvent(context.Background(), []byte("{}"), "sig"))
}
