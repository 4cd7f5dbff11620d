package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ProductUseCase реализует бизнес-логику каталога товаров.
type ProductUseCase struct {
	productRepo ProductRepository
	imagesInfra ImagesInfra
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	imagesInfra ImagesInfra,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		imagesInfra: imagesInfra,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// CreateProduct создаёт товар автора; обложка загружается в MinIO до записи в БД
// и удаляется, если запись не удалась.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	name := strings.TrimSpace(req.Name)
	if err := validateProductFields(name, req.Price, req.ContentURL); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(req.OwnerID, makeSlug(name), name, strings.TrimSpace(req.Description), req.Price, req.ContentURL)

	if req.Cover != nil {
		key, err := p.imagesInfra.UploadCover(ctx, NewUploadCoverReq(product.Slug, *req.Cover))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		product.CoverKey = &key
	}

	created, err := p.productRepo.Create(ctx, product)
	if err != nil {
		if product.CoverKey != nil {
			p.logger.Warnf("cleaning up orphaned cover after insert failure. slug: %s, error: %v", product.Slug, e.Wrap(op, err))
			p.imagesInfra.CleanupImages([]string{*product.CoverKey})
		}
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

// UpdateProduct меняет товар; доступно только владельцу.
// Деактивация — единственный способ убрать товар из продажи.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	product, err := p.productRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !product.IsOwnedBy(req.OwnerID) {
		return nil, e.Wrap(op, e.ErrForbidden)
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.ContentURL != nil {
		product.ContentURL = req.ContentURL
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := validateProductFields(product.Name, product.Price, product.ContentURL); err != nil {
		return nil, e.Wrap(op, err)
	}

	updated, err := p.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := p.cacheRepo.DeleteProduct(ctx, updated.Slug); err != nil {
		p.logger.Warnf("failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	return updated, nil
}

// GetProduct возвращает активный товар по slug.
func (p *ProductUseCase) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	product, err := p.LookupProduct(ctx, slug)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !product.IsActive {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	return product, nil
}

// LookupProduct ищет товар по slug сначала в кэше, затем в БД, включая неактивные.
func (p *ProductUseCase) LookupProduct(ctx context.Context, slug string) (*domain.Product, error) {
	const op = "ProductUseCase.LookupProduct"

	cached, err := p.cacheRepo.GetProduct(ctx, slug)
	if err != nil {
		p.logger.Warnf("product cache lookup failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	product, err := p.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	toCache := *product
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProduct(bgCtx, &toCache); err != nil {
			p.logger.Warnf("failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// ListProducts возвращает активные товары для витрины.
func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	products, err := p.productRepo.ListActive(ctx, limit, max(req.Offset, 0))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// ListOwnProducts возвращает все товары автора, включая неактивные.
func (p *ProductUseCase) ListOwnProducts(ctx context.Context, ownerID int64) ([]domain.Product, error) {
	const op = "ProductUseCase.ListOwnProducts"

	products, err := p.productRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// validateProductFields проверяет поля товара перед записью.
func validateProductFields(name string, price int64, contentURL *string) error {
	if name == "" {
		return e.ErrProductNameRequired
	}

	if price < 1 {
		return e.ErrPriceMustBePositive
	}

	return validateContentURL(contentURL)
}
