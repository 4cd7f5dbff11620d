package usecase

import (
	"context"
	"strconv"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
)

// ProductMetadataKey — ключ metadata платёжной сессии, по которому webhook находит товар.
const ProductMetadataKey = "product_id"

type ProductLookup interface {
	LookupProduct(ctx context.Context, slug string) (*domain.Product, error)
}

// CheckoutUseCase создаёт платёжные сессии для покупки товаров.
type CheckoutUseCase struct {
	products    ProductLookup
	accountRepo AccountRepository
	processor   PaymentProcessor
	cfg         CheckoutConfig
	logger      logger.Logger
}

func NewCheckoutUC(
	products ProductLookup,
	accountRepo AccountRepository,
	processor PaymentProcessor,
	cfg CheckoutConfig,
	logger logger.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		products:    products,
		accountRepo: accountRepo,
		processor:   processor,
		cfg:         cfg,
		logger:      logger,
	}
}

// CreateSession создаёт сессию оплаты товара; деньги за вычетом комиссии
// платформы уходят на payout-аккаунт владельца.
func (c *CheckoutUseCase) CreateSession(ctx context.Context, slug string) (*CheckoutSessionRes, error) {
	const op = "CheckoutUseCase.CreateSession"

	product, err := c.products.LookupProduct(ctx, slug)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !product.IsActive {
		return nil, e.Wrap(op, e.ErrProductInactive)
	}

	owner, err := c.accountRepo.GetByID(ctx, product.OwnerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if owner.StripeAccountID == "" {
		return nil, e.Wrap(op, e.ErrSellerNotOnboarded)
	}

	res, err := c.processor.CreateCheckoutSession(ctx, &CheckoutSessionReq{
		ProductID:      product.ID,
		ProductName:    product.Name,
		UnitAmount:     product.Price,
		Currency:       c.cfg.Currency,
		ApplicationFee: c.cfg.PlatformFee,
		Destination:    owner.StripeAccountID,
		SuccessURL:     c.cfg.SuccessURL,
		CancelURL:      c.cfg.CancelURL,
		Metadata: map[string]string{
			ProductMetadataKey: strconv.FormatInt(product.ID, 10),
		},
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof("checkout session %s created for product %d", res.ID, product.ID)
	return res, nil
}
