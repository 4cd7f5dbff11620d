package usecase

import (
	"context"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
)

type WebhookUC interface {
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

type AccountUC interface {
	Register(ctx context.Context, req *RegisterAccountReq) (*RegisterAccountRes, error)
	Login(ctx context.Context, req *LoginReq) (*LoginRes, error)
	GetLibrary(ctx context.Context, accountID int64) ([]domain.Product, error)
}

type CheckoutUC interface {
	CreateSession(ctx context.Context, slug string) (*CheckoutSessionRes, error)
}

type ProductUC interface {
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error)
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
	ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error)
	ListOwnProducts(ctx context.Context, ownerID int64) ([]domain.Product, error)
}
