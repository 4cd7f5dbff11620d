package domain

import "time"

// Library хранит набор товаров, к которым у аккаунта есть доступ.
// Связь с Account один к одному, набор только растёт.
type Library struct {
	ID        int64
	AccountID int64
	CreatedAt time.Time
}

func NewLibrary(accountID int64) *Library {
	return &Library{AccountID: accountID}
}
