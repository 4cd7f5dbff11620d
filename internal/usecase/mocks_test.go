package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
)

var (
	ErrMockProcessor = errors.New("processor down")
	ErrMockMailer    = errors.New("smtp down")
	ErrMockStorage   = errors.New("storage error")
)

// memStore — in-memory реализация всех репозиториев с поддержкой отката транзакций.
type memStore struct {
	mu sync.Mutex

	nextID    int64
	products  map[int64]domain.Product
	accounts  map[int64]domain.Account
	libraries map[int64]domain.Library
	shelf     map[int64]map[int64]bool // library id -> product ids
	deferred  map[int64]domain.DeferredPurchase
	outbox    []OutboxEvent

	failAddProduct error
	failUpdate     error
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[int64]domain.Product{},
		accounts:  map[int64]domain.Account{},
		libraries: map[int64]domain.Library{},
		shelf:     map[int64]map[int64]bool{},
		deferred:  map[int64]domain.DeferredPurchase{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type memSnapshot struct {
	nextID    int64
	products  map[int64]domain.Product
	accounts  map[int64]domain.Account
	libraries map[int64]domain.Library
	shelf     map[int64]map[int64]bool
	deferred  map[int64]domain.DeferredPurchase
	outbox    []OutboxEvent
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := memSnapshot{
		nextID:    s.nextID,
		products:  map[int64]domain.Product{},
		accounts:  map[int64]domain.Account{},
		libraries: map[int64]domain.Library{},
		shelf:     map[int64]map[int64]bool{},
		deferred:  map[int64]domain.DeferredPurchase{},
		outbox:    append([]OutboxEvent(nil), s.outbox...),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.libraries {
		snap.libraries[k] = v
	}
	for k, v := range s.shelf {
		inner := map[int64]bool{}
		for pk, pv := range v {
			inner[pk] = pv
		}
		snap.shelf[k] = inner
	}
	for k, v := range s.deferred {
		snap.deferred[k] = v
	}

	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID = snap.nextID
	s.products = snap.products
	s.accounts = snap.accounts
	s.libraries = snap.libraries
	s.shelf = snap.shelf
	s.deferred = snap.deferred
	s.outbox = snap.outbox
}

// memTxManager откатывает memStore, если fn вернула ошибку.
type memTxManager struct {
	store *memStore
	calls int
}

func (m *memTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}

	return nil
}

// seed helpers

func (s *memStore) addProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.id()
	} else if p.ID > s.nextID {
		s.nextID = p.ID
	}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addAccount(a domain.Account) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.id()
	s.accounts[a.ID] = a
	lib := domain.Library{ID: s.id(), AccountID: a.ID}
	s.libraries[lib.ID] = lib
	s.shelf[lib.ID] = map[int64]bool{}
	return a
}

func (s *memStore) libraryOf(accountID int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, lib := range s.libraries {
		if lib.AccountID == accountID {
			ids := make([]int64, 0, len(s.shelf[lib.ID]))
			for id := range s.shelf[lib.ID] {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			return ids
		}
	}

	return nil
}

func (s *memStore) deferredPurchases() []domain.DeferredPurchase {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]domain.DeferredPurchase, 0, len(s.deferred))
	for _, d := range s.deferred {
		res = append(res, d)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (s *memStore) outboxEvents() []OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]OutboxEvent(nil), s.outbox...)
}

func (s *memStore) account(id int64) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accounts[id]
}

func (s *memStore) accountCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.accounts)
}

// memProducts — ProductRepository поверх memStore
type memProducts struct{ *memStore }

func (r memProducts) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.products {
		if existing.Slug == p.Slug {
			return nil, e.ErrSlugTaken
		}
	}
	created := *p
	created.ID = r.id()
	created.CreatedAt = time.Now()
	r.products[created.ID] = created
	return &created, nil
}

func (r memProducts) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failUpdate != nil {
		return nil, r.failUpdate
	}
	if _, ok := r.products[p.ID]; !ok {
		return nil, e.ErrProductNotFound
	}
	updated := *p
	r.products[p.ID] = updated
	return &updated, nil
}

func (r memProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

func (r memProducts) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (r memProducts) ListActive(_ context.Context, limit, offset int) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []domain.Product
	for _, p := range r.products {
		if p.IsActive {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	if offset >= len(res) {
		return nil, nil
	}
	res = res[offset:]
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r memProducts) ListByOwner(_ context.Context, ownerID int64) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []domain.Product
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

// memAccounts — AccountRepository поверх memStore
type memAccounts struct{ *memStore }

func (r memAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == a.Email || existing.Username == a.Username {
			return nil, e.ErrAccountAlreadyExists
		}
	}
	created := *a
	created.ID = r.id()
	r.accounts[created.ID] = created
	return &created, nil
}

func (r memAccounts) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, e.ErrAccountNotFound
	}
	return &a, nil
}

func (r memAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			return &a, nil
		}
	}
	return nil, e.ErrAccountNotFound
}

func (r memAccounts) GetByCustomerID(_ context.Context, customerID string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.StripeCustomerID != nil && *a.StripeCustomerID == customerID {
			return &a, nil
		}
	}
	return nil, e.ErrAccountNotFound
}

func (r memAccounts) BindCustomerID(_ context.Context, accountID int64, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[accountID]
	if !ok {
		return e.ErrAccountNotFound
	}
	a.StripeCustomerID = &customerID
	r.accounts[accountID] = a
	return nil
}

func (r memAccounts) SetPayoutAccountID(_ context.Context, accountID int64, payoutAccountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[accountID]
	if !ok {
		return e.ErrAccountNotFound
	}
	a.StripeAccountID = payoutAccountID
	r.accounts[accountID] = a
	return nil
}

func (r memAccounts) SetPayoutsEnabled(_ context.Context, payoutAccountID string, enabled bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.accounts {
		if a.StripeAccountID == payoutAccountID {
			a.PayoutsEnabled = enabled
			r.accounts[id] = a
			return true, nil
		}
	}
	return false, nil
}

// memLibraries — LibraryRepository поверх memStore
type memLibraries struct{ *memStore }

func (r memLibraries) Create(_ context.Context, l *domain.Library) (*domain.Library, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *l
	created.ID = r.id()
	r.libraries[created.ID] = created
	r.shelf[created.ID] = map[int64]bool{}
	return &created, nil
}

func (r memLibraries) GetByAccountID(_ context.Context, accountID int64) (*domain.Library, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.libraries {
		if l.AccountID == accountID {
			return &l, nil
		}
	}
	return nil, e.ErrLibraryNotFound
}

func (r memLibraries) AddProduct(_ context.Context, libraryID, productID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failAddProduct != nil {
		return false, r.failAddProduct
	}
	if r.shelf[libraryID][productID] {
		return false, nil
	}
	r.shelf[libraryID][productID] = true
	return true, nil
}

func (r memLibraries) ListProducts(_ context.Context, libraryID int64) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []domain.Product
	for id := range r.shelf[libraryID] {
		res = append(res, r.products[id])
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

// memDeferred — DeferredPurchaseRepository поверх memStore
type memDeferred struct{ *memStore }

func (r memDeferred) Create(_ context.Context, d *domain.DeferredPurchase) (*domain.DeferredPurchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *d
	created.ID = r.id()
	created.CreatedAt = time.Now()
	r.deferred[created.ID] = created
	return &created, nil
}

func (r memDeferred) ListUnclaimedByEmail(_ context.Context, email string) ([]domain.DeferredPurchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []domain.DeferredPurchase
	for _, d := range r.deferred {
		if d.Email == email && !d.IsClaimed() {
			res = append(res, d)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r memDeferred) MarkClaimed(_ context.Context, ids []int64, accountID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, id := range ids {
		d := r.deferred[id]
		d.ClaimedAt = &now
		d.ClaimedAccountID = &accountID
		r.deferred[id] = d
	}
	return nil
}

// memOutbox — OutboxRepository поверх memStore
type memOutbox struct{ *memStore }

func (r memOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *event
	created.ID = r.id()
	r.outbox = append(r.outbox, created)
	return &created, nil
}

func (r memOutbox) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (r memOutbox) MarkAsProcessed(context.Context, int64) error {
	return nil
}

func (r memOutbox) ResetStale(context.Context, time.Duration) (int64, error) {
	return 0, nil
}

// MockVerifier реализует EventVerifier
type MockVerifier struct {
	Event *domain.PaymentEvent
	Err   error
	Calls int
}

func (m *MockVerifier) Verify([]byte, string) (*domain.PaymentEvent, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Event, nil
}

// MockMailer реализует Mailer
type MockMailer struct {
	mu   sync.Mutex
	Sent []string
	Err  error
}

func (m *MockMailer) SendAccountCreationPrompt(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sent = append(m.Sent, email)
	return m.Err
}

// MockProcessor реализует PaymentProcessor
type MockProcessor struct {
	CheckoutFunc    func(ctx context.Context, req *CheckoutSessionReq) (*CheckoutSessionRes, error)
	PayoutFunc      func(ctx context.Context, req *PayoutAccountReq) (string, error)
	LastCheckout    *CheckoutSessionReq
	PayoutCallCount int
}

func (m *MockProcessor) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionReq) (*CheckoutSessionRes, error) {
	m.LastCheckout = req
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, req)
	}
	return &CheckoutSessionRes{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

func (m *MockProcessor) CreatePayoutAccount(ctx context.Context, req *PayoutAccountReq) (string, error) {
	m.PayoutCallCount++
	if m.PayoutFunc != nil {
		return m.PayoutFunc(ctx, req)
	}
	return "acct_test_1", nil
}

// MockTokens реализует TokenIssuer
type MockTokens struct{}

func (MockTokens) Issue(accountID int64) (string, error) {
	return fmt.Sprintf("token-%d", accountID), nil
}

// MockImages реализует ImagesInfra
type MockImages struct {
	mu        sync.Mutex
	UploadErr error
	Uploaded  []string
	Cleaned   []string
}

func (m *MockImages) UploadCover(_ context.Context, req *UploadCoverReq) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	key := req.Slug + "/" + req.Image.Name
	m.Uploaded = append(m.Uploaded, key)
	return key, nil
}

func (m *MockImages) CleanupImages(keys []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Cleaned = append(m.Cleaned, keys...)
}

// MockCache реализует CacheRepository
type MockCache struct {
	mu       sync.Mutex
	Items    map[string]domain.Product
	GetErr   error
	Deleted  []string
	SetCalls int
}

func NewMockCache() *MockCache {
	return &MockCache{Items: map[string]domain.Product{}}
}

func (m *MockCache) GetProduct(_ context.Context, slug string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	p, ok := m.Items[slug]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MockCache) SetProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls++
	m.Items[p.Slug] = *p
	return nil
}

func (m *MockCache) DeleteProduct(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Items, slug)
	m.Deleted = append(m.Deleted, slug)
	return nil
}

func (m *MockCache) setCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.SetCalls
}
