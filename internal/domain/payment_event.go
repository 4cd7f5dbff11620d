package domain

// PaymentEventType тип уведомления платёжного провайдера
type PaymentEventType string

const (
	EventCheckoutSessionCompleted PaymentEventType = "checkout.session.completed"
	EventAccountUpdated           PaymentEventType = "account.updated"
)

// PaymentEvent проверенное уведомление провайдера.
// Заполнено только поле, соответствующее Type; для прочих типов оба nil.
type PaymentEvent struct {
	ID       string
	Type     PaymentEventType
	Checkout *CheckoutCompleted
	Payout   *PayoutAccountUpdated
}

// CheckoutCompleted данные завершённой оплаты
type CheckoutCompleted struct {
	SessionID  string
	ProductID  int64
	CustomerID string
	Email      string
}

// PayoutAccountUpdated данные обновления payout-аккаунта автора
type PayoutAccountUpdated struct {
	AccountID      string
	PayoutsEnabled bool
}
