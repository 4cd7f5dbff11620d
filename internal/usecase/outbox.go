package usecase

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	EntitlementGranted OutboxEventType = "entitlement.granted"
	PurchaseDeferred   OutboxEventType = "purchase.deferred"
	PurchaseClaimed    OutboxEventType = "purchase.claimed"
)

// OutboxEvent — событие маркетплейса, записанное в той же транзакции, что и изменение.
type OutboxEvent struct {
	ID           int64
	EventID      string
	EventType    OutboxEventType
	AggregateKey string // ключ партиционирования в Kafka
	Payload      []byte
	Status       OutboxStatus
	CreatedAt    time.Time
	ProcessedAt  *time.Time
}

type EntitlementGrantedPayload struct {
	AccountID int64  `json:"account_id"`
	ProductID int64  `json:"product_id"`
	SessionID string `json:"session_id,omitempty"`
}

type PurchaseDeferredPayload struct {
	DeferredPurchaseID int64  `json:"deferred_purchase_id"`
	Email              string `json:"email"`
	ProductID          int64  `json:"product_id"`
	SessionID          string `json:"session_id,omitempty"`
}

type PurchaseClaimedPayload struct {
	AccountID  int64   `json:"account_id"`
	ProductIDs []int64 `json:"product_ids"`
}

// outboxEnvelope — формат сообщения в топике.
type outboxEnvelope struct {
	EventID    string          `json:"event_id"`
	EventType  OutboxEventType `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       any             `json:"data"`
}

// NewOutboxEvent сериализует data в конверт события.
func NewOutboxEvent(eventType OutboxEventType, aggregateKey string, data any) (*OutboxEvent, error) {
	now := time.Now().UTC()
	eventID := uuid.NewString()

	payload, err := json.Marshal(outboxEnvelope{
		EventID:    eventID,
		EventType:  eventType,
		OccurredAt: now,
		Data:       data,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:      eventID,
		EventType:    eventType,
		AggregateKey: aggregateKey,
		Payload:      payload,
		Status:       Pending,
		CreatedAt:    now,
	}, nil
}

func accountKey(accountID int64) string {
	return "account:" + strconv.FormatInt(accountID, 10)
}

func emailKey(email string) string {
	return "email:" + email
}
