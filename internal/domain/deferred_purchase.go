package domain

import "time"

// DeferredPurchase описывает оплаченную покупку, для которой ещё нет аккаунта.
// Привязка идёт по email плательщика.
type DeferredPurchase struct {
	ID               int64
	Email            string
	ProductID        int64
	ClaimedAt        *time.Time
	ClaimedAccountID *int64
	CreatedAt        time.Time
}

func NewDeferredPurchase(email string, productID int64) *DeferredPurchase {
	return &DeferredPurchase{
		Email:     email,
		ProductID: productID,
	}
}

func (d *DeferredPurchase) IsClaimed() bool {
	return d.ClaimedAt != nil
}
