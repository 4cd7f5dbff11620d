package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/pkg/auth"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
)

// AccountUseCase создаёт аккаунты и обслуживает их библиотеки.
type AccountUseCase struct {
	accountRepo  AccountRepository
	libraryRepo  LibraryRepository
	deferredRepo DeferredPurchaseRepository
	outboxRepo   OutboxRepository
	txManager    TxManager
	processor    PaymentProcessor
	tokens       TokenIssuer
	logger       logger.Logger
}

func NewAccountUC(
	accountRepo AccountRepository,
	libraryRepo LibraryRepository,
	deferredRepo DeferredPurchaseRepository,
	outboxRepo OutboxRepository,
	txManager TxManager,
	processor PaymentProcessor,
	tokens TokenIssuer,
	logger logger.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo:  accountRepo,
		libraryRepo:  libraryRepo,
		deferredRepo: deferredRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		processor:    processor,
		tokens:       tokens,
		logger:       logger,
	}
}

// Register создаёт полностью инициализированный аккаунт:
//  1. аккаунт и его библиотеку;
//  2. переносит в библиотеку все отложенные покупки с тем же email;
//  3. создаёт payout-аккаунт у провайдера и сохраняет его id.
//
// Все шаги выполняются в одной транзакции: при ошибке провайдера аккаунт не создаётся,
// а вызывающему возвращается e.ErrPayoutProvisioning.
func (a *AccountUseCase) Register(ctx context.Context, req *RegisterAccountReq) (*RegisterAccountRes, error) {
	const op = "AccountUseCase.Register"

	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)
	if err := a.validateRegistration(email, username, req.Password); err != nil {
		return nil, e.Wrap(op, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		account *domain.Account
		claimed []int64
	)
	err = a.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		account, err = a.accountRepo.Create(ctx, domain.NewAccount(email, username, strings.TrimSpace(req.Name), hash))
		if err != nil {
			return err
		}

		library, err := a.libraryRepo.Create(ctx, domain.NewLibrary(account.ID))
		if err != nil {
			return err
		}

		claimed, err = a.claimDeferredPurchases(ctx, account.ID, library.ID, email)
		if err != nil {
			return err
		}

		payoutID, err := a.processor.CreatePayoutAccount(ctx, &PayoutAccountReq{Email: email})
		if err != nil {
			return fmt.Errorf("%w: %w", e.ErrPayoutProvisioning, err)
		}

		if err := a.accountRepo.SetPayoutAccountID(ctx, account.ID, payoutID); err != nil {
			return err
		}
		account.StripeAccountID = payoutID

		return nil
	})
	if err != nil {
		if errors.Is(err, e.ErrPayoutProvisioning) {
			a.logger.Errorf(err, "account registration for %s aborted", email)
		}
		return nil, e.Wrap(op, err)
	}

	if len(claimed) > 0 {
		a.logger.Infof("account %d claimed %d deferred purchases", account.ID, len(claimed))
	}

	token, err := a.tokens.Issue(account.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &RegisterAccountRes{
		Account:         account,
		Token:           token,
		ClaimedProducts: claimed,
	}, nil
}

// claimDeferredPurchases переносит отложенные покупки в библиотеку и помечает их использованными.
func (a *AccountUseCase) claimDeferredPurchases(ctx context.Context, accountID, libraryID int64, email string) ([]int64, error) {
	purchases, err := a.deferredRepo.ListUnclaimedByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if len(purchases) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(purchases))
	productIDs := make([]int64, 0, len(purchases))
	for _, purchase := range purchases {
		ids = append(ids, purchase.ID)

		added, err := a.libraryRepo.AddProduct(ctx, libraryID, purchase.ProductID)
		if err != nil {
			return nil, err
		}
		if added {
			productIDs = append(productIDs, purchase.ProductID)
		}
	}

	if err := a.deferredRepo.MarkClaimed(ctx, ids, accountID); err != nil {
		return nil, err
	}

	event, err := NewOutboxEvent(PurchaseClaimed, accountKey(accountID), PurchaseClaimedPayload{
		AccountID:  accountID,
		ProductIDs: productIDs,
	})
	if err != nil {
		return nil, err
	}

	if _, err := a.outboxRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return productIDs, nil
}

// Login проверяет пароль и выпускает токен.
func (a *AccountUseCase) Login(ctx context.Context, req *LoginReq) (*LoginRes, error) {
	const op = "AccountUseCase.Login"

	account, err := a.accountRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, e.ErrAccountNotFound) {
			return nil, e.Wrap(op, e.ErrInvalidCredentials)
		}
		return nil, e.Wrap(op, err)
	}

	if !auth.CheckPassword(req.Password, account.PasswordHash) {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	token, err := a.tokens.Issue(account.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &LoginRes{AccountID: account.ID, Token: token}, nil
}

// GetLibrary возвращает товары, доступные аккаунту.
func (a *AccountUseCase) GetLibrary(ctx context.Context, accountID int64) ([]domain.Product, error) {
	const op = "AccountUseCase.GetLibrary"

	library, err := a.libraryRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	products, err := a.libraryRepo.ListProducts(ctx, library.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

func (a *AccountUseCase) validateRegistration(email, username, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	if username == "" {
		return e.ErrUsernameRequired
	}

	if len(password) < minPasswordLen {
		return e.ErrPasswordTooShort
	}

	return nil
}
