package usecase

import (
	"context"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
)

// TxManager выполняет fn в одной транзакции БД.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventVerifier проверяет подпись уведомления провайдера и разбирает его.
// Возвращает e.ErrInvalidPayload или e.ErrSignatureMismatch.
type EventVerifier interface {
	Verify(payload []byte, signature string) (*domain.PaymentEvent, error)
}

type PaymentProcessor interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionReq) (*CheckoutSessionRes, error)
	CreatePayoutAccount(ctx context.Context, req *PayoutAccountReq) (string, error)
}

type Mailer interface {
	SendAccountCreationPrompt(ctx context.Context, email string) error
}

type ImagesInfra interface {
	UploadCover(ctx context.Context, req *UploadCoverReq) (string, error)
	CleanupImages(keys []string)
}

type TokenIssuer interface {
	Issue(accountID int64) (string, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
