package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListActive(ctx context.Context, limit, offset int) ([]domain.Product, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Product, error)
}

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByCustomerID(ctx context.Context, customerID string) (*domain.Account, error)
	// BindCustomerID записывает customer id провайдера, перезаписывая прежний.
	BindCustomerID(ctx context.Context, accountID int64, customerID string) error
	SetPayoutAccountID(ctx context.Context, accountID int64, payoutAccountID string) error
	SetPayoutsEnabled(ctx context.Context, payoutAccountID string, enabled bool) (bool, error)
}

type LibraryRepository interface {
	Create(ctx context.Context, library *domain.Library) (*domain.Library, error)
	GetByAccountID(ctx context.Context, accountID int64) (*domain.Library, error)
	// AddProduct идемпотентно добавляет товар, added=false если он уже был в библиотеке.
	AddProduct(ctx context.Context, libraryID, productID int64) (bool, error)
	ListProducts(ctx context.Context, libraryID int64) ([]domain.Product, error)
}

type DeferredPurchaseRepository interface {
	Create(ctx context.Context, purchase *domain.DeferredPurchase) (*domain.DeferredPurchase, error)
	ListUnclaimedByEmail(ctx context.Context, email string) ([]domain.DeferredPurchase, error)
	MarkClaimed(ctx context.Context, ids []int64, accountID int64) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	// ResetStale возвращает в очередь события, зависшие в обработке.
	ResetStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type CacheRepository interface {
	// GetProduct возвращает nil без ошибки при промахе кэша.
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, slug string) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
