package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          int64      `db:"id"`
	OwnerID     int64      `db:"owner_id"`
	Slug        string     `db:"slug"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Price       int64      `db:"price"`
	CoverKey    *string    `db:"cover_key"`
	ContentURL  *string    `db:"content_url"`
	IsActive    bool       `db:"is_active"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// AccountModel представляет запись таблицы accounts в PostgreSQL.
type AccountModel struct {
	ID               int64      `db:"id"`
	Email            string     `db:"email"`
	Username         string     `db:"username"`
	Name             string     `db:"name"`
	PasswordHash     string     `db:"password_hash"`
	StripeCustomerID *string    `db:"stripe_customer_id"`
	StripeAccountID  string     `db:"stripe_account_id"`
	PayoutsEnabled   bool       `db:"payouts_enabled"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at"`
}

type LibraryModel struct {
	ID        int64     `db:"id"`
	AccountID int64     `db:"account_id"`
	CreatedAt time.Time `db:"created_at"`
}

// DeferredPurchaseModel представляет запись таблицы deferred_purchases в PostgreSQL.
type DeferredPurchaseModel struct {
	ID               int64      `db:"id"`
	Email            string     `db:"email"`
	ProductID        int64      `db:"product_id"`
	ClaimedAt        *time.Time `db:"claimed_at"`
	ClaimedAccountID *int64     `db:"claimed_account_id"`
	CreatedAt        time.Time  `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID           int64      `db:"id"`
	EventID      string     `db:"event_id"`
	EventType    string     `db:"event_type"`
	AggregateKey string     `db:"aggregate_key"`
	Payload      []byte     `db:"payload"`
	Status       string     `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	ProcessedAt  *time.Time `db:"processed_at"`
}
