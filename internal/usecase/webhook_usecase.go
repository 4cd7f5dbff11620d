package usecase

import (
	"context"
	"errors"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
)

// grantOutcome — чем закончилась обработка завершённой оплаты.
type grantOutcome int

const (
	outcomeGranted grantOutcome = iota
	outcomeAlreadyOwned
	outcomeDeferred
)

// WebhookUseCase сверяет уведомления об оплате с аккаунтами и выдаёт доступ к товарам.
type WebhookUseCase struct {
	verifier     EventVerifier
	productRepo  ProductRepository
	accountRepo  AccountRepository
	libraryRepo  LibraryRepository
	deferredRepo DeferredPurchaseRepository
	outboxRepo   OutboxRepository
	txManager    TxManager
	mailer       Mailer
	logger       logger.Logger
}

func NewWebhookUC(
	verifier EventVerifier,
	productRepo ProductRepository,
	accountRepo AccountRepository,
	libraryRepo LibraryRepository,
	deferredRepo DeferredPurchaseRepository,
	outboxRepo OutboxRepository,
	txManager TxManager,
	mailer Mailer,
	logger logger.Logger,
) *WebhookUseCase {
	return &WebhookUseCase{
		verifier:     verifier,
		productRepo:  productRepo,
		accountRepo:  accountRepo,
		libraryRepo:  libraryRepo,
		deferredRepo: deferredRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		mailer:       mailer,
		logger:       logger,
	}
}

// HandleEvent проверяет подпись уведомления и обрабатывает поддерживаемые типы событий.
// Ни одно поле события не используется до успешной проверки подписи.
func (w *WebhookUseCase) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	const op = "WebhookUseCase.HandleEvent"

	event, err := w.verifier.Verify(payload, signature)
	if err != nil {
		return e.Wrap(op, err)
	}

	switch event.Type {
	case domain.EventCheckoutSessionCompleted:
		if event.Checkout == nil {
			return e.Wrap(op, e.ErrInvalidPayload)
		}
		err = w.grantEntitlement(ctx, event.Checkout)
	case domain.EventAccountUpdated:
		if event.Payout == nil {
			return e.Wrap(op, e.ErrInvalidPayload)
		}
		err = w.updatePayoutStatus(ctx, event.Payout)
	default:
		w.logger.Debugf("ignoring event %s of type %s", event.ID, event.Type)
		return nil
	}

	if err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// grantEntitlement выдаёт товар покупателю, найденному по customer id или email,
// либо откладывает покупку до регистрации.
func (w *WebhookUseCase) grantEntitlement(ctx context.Context, checkout *domain.CheckoutCompleted) error {
	const op = "WebhookUseCase.grantEntitlement"

	product, err := w.productRepo.GetByID(ctx, checkout.ProductID)
	if err != nil {
		if errors.Is(err, e.ErrProductNotFound) {
			w.logger.Errorf(err, "checkout session %s references unknown product %d", checkout.SessionID, checkout.ProductID)
		}
		return e.Wrap(op, err)
	}

	email := normalizeEmail(checkout.Email)

	var outcome grantOutcome
	err = w.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		outcome, err = w.resolveAndGrant(ctx, product, checkout, email)
		return err
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	switch outcome {
	case outcomeAlreadyOwned:
		w.logger.Infof("product %d already in library, session %s", product.ID, checkout.SessionID)
	case outcomeDeferred:
		// Письмо отправляется только после коммита; ошибка отправки не откатывает покупку.
		if err := w.mailer.SendAccountCreationPrompt(ctx, email); err != nil {
			w.logger.Warnf("failed to send account creation prompt for session %s: %v", checkout.SessionID, e.Wrap(op, err))
		}
	}

	return nil
}

// resolveAndGrant выполняется внутри транзакции.
func (w *WebhookUseCase) resolveAndGrant(
	ctx context.Context,
	product *domain.Product,
	checkout *domain.CheckoutCompleted,
	email string,
) (grantOutcome, error) {
	if checkout.CustomerID != "" {
		account, err := w.accountRepo.GetByCustomerID(ctx, checkout.CustomerID)
		switch {
		case err == nil:
			return w.addToLibrary(ctx, account, product, checkout.SessionID)
		case !errors.Is(err, e.ErrAccountNotFound):
			return 0, err
		}
	}

	if email == "" {
		return 0, e.Wrap("customer_details.email is empty", e.ErrInvalidPayload)
	}

	account, err := w.accountRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := w.bindCustomer(ctx, account, checkout.CustomerID); err != nil {
			return 0, err
		}
		return w.addToLibrary(ctx, account, product, checkout.SessionID)
	case !errors.Is(err, e.ErrAccountNotFound):
		return 0, err
	}

	return w.deferPurchase(ctx, email, product, checkout.SessionID)
}

// bindCustomer привязывает customer id провайдера к аккаунту, найденному по email.
// Побеждает последняя запись: прежняя привязка перезаписывается.
func (w *WebhookUseCase) bindCustomer(ctx context.Context, account *domain.Account, customerID string) error {
	if customerID == "" {
		return nil
	}

	if account.HasCustomerID() && *account.StripeCustomerID != customerID {
		w.logger.Warnf("account %d customer binding changes from %s to %s", account.ID, *account.StripeCustomerID, customerID)
	}

	if err := w.accountRepo.BindCustomerID(ctx, account.ID, customerID); err != nil {
		return err
	}

	account.StripeCustomerID = &customerID
	return nil
}

func (w *WebhookUseCase) addToLibrary(ctx context.Context, account *domain.Account, product *domain.Product, sessionID string) (grantOutcome, error) {
	library, err := w.libraryRepo.GetByAccountID(ctx, account.ID)
	if err != nil {
		return 0, err
	}

	added, err := w.libraryRepo.AddProduct(ctx, library.ID, product.ID)
	if err != nil {
		return 0, err
	}

	if !added {
		return outcomeAlreadyOwned, nil
	}

	event, err := NewOutboxEvent(EntitlementGranted, accountKey(account.ID), EntitlementGrantedPayload{
		AccountID: account.ID,
		ProductID: product.ID,
		SessionID: sessionID,
	})
	if err != nil {
		return 0, err
	}

	if _, err := w.outboxRepo.Create(ctx, event); err != nil {
		return 0, err
	}

	return outcomeGranted, nil
}

func (w *WebhookUseCase) deferPurchase(ctx context.Context, email string, product *domain.Product, sessionID string) (grantOutcome, error) {
	purchase, err := w.deferredRepo.Create(ctx, domain.NewDeferredPurchase(email, product.ID))
	if err != nil {
		return 0, err
	}

	event, err := NewOutboxEvent(PurchaseDeferred, emailKey(email), PurchaseDeferredPayload{
		DeferredPurchaseID: purchase.ID,
		Email:              email,
		ProductID:          product.ID,
		SessionID:          sessionID,
	})
	if err != nil {
		return 0, err
	}

	if _, err := w.outboxRepo.Create(ctx, event); err != nil {
		return 0, err
	}

	return outcomeDeferred, nil
}

// updatePayoutStatus обновляет признак готовности payout-аккаунта автора.
func (w *WebhookUseCase) updatePayoutStatus(ctx context.Context, payout *domain.PayoutAccountUpdated) error {
	updated, err := w.accountRepo.SetPayoutsEnabled(ctx, payout.AccountID, payout.PayoutsEnabled)
	if err != nil {
		return err
	}

	if !updated {
		w.logger.Warnf("account.updated for unknown payout account %s", payout.AccountID)
	}

	return nil
}
