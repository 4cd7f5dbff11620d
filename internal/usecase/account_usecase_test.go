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

func newAccountUC(store *memStore, processor *MockProcessor) *AccountUseCase {
	return NewAccountUC(
		memAccounts{store},
		memLibraries{store},
		memDeferred{store},
		memOutbox{store},
		&memTxManager{store: store},
		processor,
		MockTokens{},
		logger.NewNop(),
	)
}

func TestRegister_ClaimsDeferredPurchases(t *testing.T) {
	store := newMemStore()
	for _, id := range []int64{7, 8, 9} {
		store.addProduct(domain.Product{ID: id, OwnerID: 1, Slug: "p" + itoa(id), Name: "p", Price: 100, IsActive: true})
		_, err := memDeferred{store}.Create(context.Background(), domain.NewDeferredPurchase("a@b.com", id))
		require.NoError(t, err)
	}
	_, err := memDeferred{store}.Create(context.Background(), domain.NewDeferredPurchase("other@b.com", 7))
	require.NoError(t, err)

	processor := &MockProcessor{}
	uc := newAccountUC(store, processor)

	res, err := uc.Register(context.Background(), NewRegisterAccountReq("A@b.com", "alice", "Alice", "supersecret"))
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", res.Account.Email)
	assert.Equal(t, "acct_test_1", res.Account.StripeAccountID)
	assert.Equal(t, "acct_test_1", store.account(res.Account.ID).StripeAccountID)
	assert.Equal(t, []int64{7, 8, 9}, res.ClaimedProducts)
	assert.Equal(t, []int64{7, 8, 9}, store.libraryOf(res.Account.ID))
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, 1, processor.PayoutCallCount)

	for _, d := range store.deferredPurchases() {
		if d.Email == "a@b.com" {
			assert.True(t, d.IsClaimed())
			require.NotNil(t, d.ClaimedAccountID)
			assert.Equal(t, res.Account.ID, *d.ClaimedAccountID)
		} else {
			assert.False(t, d.IsClaimed())
		}
	}

	events := store.outboxEvents()
	require.Len(t, events, 1)
	assert.Equal(t, PurchaseClaimed, events[0].EventType)

	// повторная регистрация с тем же email не должна ничего забрать
	_, err = uc.Register(context.Background(), NewRegisterAccountReq("a@b.com", "alice2", "Alice", "supersecret"))
	require.ErrorIs(t, err, e.ErrAccountAlreadyExists)
}

func TestRegister_WithoutDeferredPurchases(t *testing.T) {
	store := newMemStore()
	uc := newAccountUC(store, &MockProcessor{})

	res, err := uc.Register(context.Background(), NewRegisterAccountReq("new@b.com", "newbie", "", "supersecret"))
	require.NoError(t, err)

	assert.Empty(t, res.ClaimedProducts)
	assert.Empty(t, store.libraryOf(res.Account.ID))
	assert.Empty(t, store.outboxEvents())
}

func TestRegister_PayoutFailureRollsBack(t *testing.T) {
	store := newMemStore()
	store.addProduct(domain.Product{ID: 7, OwnerID: 1, Slug: "p7", Name: "p", Price: 100, IsActive: true})
	_, err := memDeferred{store}.Create(context.Background(), domain.NewDeferredPurchase("a@b.com", 7))
	require.NoError(t, err)

	processor := &MockProcessor{
		PayoutFunc: func(context.Context, *PayoutAccountReq) (string, error) {
			return "", ErrMockProcessor
		},
	}
	uc := newAccountUC(store, processor)

	res, err := uc.Register(context.Background(), NewRegisterAccountReq("a@b.com", "alice", "Alice", "supersecret"))
	require.ErrorIs(t, err, e.ErrPayoutProvisioning)
	require.ErrorIs(t, err, ErrMockProcessor)
	assert.Nil(t, res)

	assert.Zero(t, store.accountCount())
	deferred := store.deferredPurchases()
	require.Len(t, deferred, 1)
	assert.False(t, deferred[0].IsClaimed())
	assert.Empty(t, store.outboxEvents())
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *RegisterAccountReq
		wantErr error
	}{
		{name: "empty email", req: NewRegisterAccountReq("", "u", "", "supersecret"), wantErr: e.ErrEmailRequired},
		{name: "bad email", req: NewRegisterAccountReq("not-an-email", "u", "", "supersecret"), wantErr: e.ErrEmailRequired},
		{name: "no username", req: NewRegisterAccountReq("a@b.com", "  ", "", "supersecret"), wantErr: e.ErrUsernameRequired},
		{name: "short password", req: NewRegisterAccountReq("a@b.com", "u", "", "short"), wantErr: e.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			processor := &MockProcessor{}
			uc := newAccountUC(store, processor)

			_, err := uc.Register(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, processor.PayoutCallCount)
			assert.Zero(t, store.accountCount())
		})
	}
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	uc := newAccountUC(store, &MockProcessor{})

	reg, err := uc.Register(context.Background(), NewRegisterAccountReq("a@b.com", "alice", "Alice", "supersecret"))
	require.NoError(t, err)

	res, err := uc.Login(context.Background(), NewLoginReq(" A@B.COM", "supersecret"))
	require.NoError(t, err)
	assert.Equal(t, reg.Account.ID, res.AccountID)
	assert.NotEmpty(t, res.Token)

	_, err = uc.Login(context.Background(), NewLoginReq("a@b.com", "wrong-password"))
	require.ErrorIs(t, err, e.ErrInvalidCredentials)

	_, err = uc.Login(context.Background(), NewLoginReq("nobody@b.com", "supersecret"))
	require.ErrorIs(t, err, e.ErrInvalidCredentials)
}

func TestGetLibrary(t *testing.T) {
	store := newMemStore()
	store.addProduct(domain.Product{ID: 42, OwnerID: 1, Slug: "p42", Name: "p", Price: 100, IsActive: true})
	buyer := store.addAccount(domain.Account{Email: "a@b.com", Username: "ab"})

	lib, err := memLibraries{store}.GetByAccountID(context.Background(), buyer.ID)
	require.NoError(t, err)
	_, err = memLibraries{store}.AddProduct(context.Background(), lib.ID, 42)
	require.NoError(t, err)

	uc := newAccountUC(store, &MockProcessor{})
	products, err := uc.GetLibrary(context.Background(), buyer.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(42), products[0].ID)

	_, err = uc.GetLibrary(context.Background(), 999)
	require.ErrorIs(t, err, e.ErrLibraryNotFound)
}
