package domain

import "time"

// Account описывает пользователя маркетплейса (покупателя и/или автора)
type Account struct {
	ID               int64
	Email            string
	Username         string
	Name             string
	PasswordHash     string
	StripeCustomerID *string // Назначается платёжным провайдером при первой оплате
	StripeAccountID  string  // Payout-аккаунт, назначается один раз при создании
	PayoutsEnabled   bool
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

func NewAccount(email, username, name, passwordHash string) *Account {
	return &Account{
		Email:        email,
		Username:     username,
		Name:         name,
		PasswordHash: passwordHash,
	}
}

// HasCustomerID сообщает, привязан ли к аккаунту идентификатор клиента провайдера.
func (a *Account) HasCustomerID() bool {
	return a.StripeCustomerID != nil && *a.StripeCustomerID != ""
}
