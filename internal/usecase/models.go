package usecase

import "github.com/DRSN-tech/go-marketplace/internal/domain"

// ACCOUNT USECASE

// RegisterAccountReq — запрос на регистрацию аккаунта.
type RegisterAccountReq struct {
	Email    string
	Username string
	Name     string
	Password string
}

// RegisterAccountRes — полностью инициализированный аккаунт и его токен.
type RegisterAccountRes struct {
	Account         *domain.Account
	Token           string
	ClaimedProducts []int64 // Товары, перенесённые из отложенных покупок
}

type LoginReq struct {
	Email    string
	Password string
}

type LoginRes struct {
	AccountID int64
	Token     string
}

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара автором.
type CreateProductReq struct {
	OwnerID     int64
	Name        string
	Description string
	Price       int64 // в центах
	ContentURL  *string
	Cover       *ProductImage
}

// UpdateProductReq — частичное обновление товара, nil-поля не меняются.
type UpdateProductReq struct {
	OwnerID     int64
	Slug        string
	Name        *string
	Description *string
	Price       *int64
	ContentURL  *string
	IsActive    *bool
}

type ListProductsReq struct {
	Limit  int
	Offset int
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type, определённый по содержимому
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// CHECKOUT USECASE

// CheckoutConfig — неизменяемые параметры платёжной сессии.
type CheckoutConfig struct {
	Currency    string
	PlatformFee int64
	SuccessURL  string
	CancelURL   string
}

// INFRASTRUCTURE

// CheckoutSessionReq — параметры создания платёжной сессии у провайдера.
type CheckoutSessionReq struct {
	ProductID      int64
	ProductName    string
	UnitAmount     int64
	Currency       string
	ApplicationFee int64
	Destination    string // payout-аккаунт автора
	SuccessURL     string
	CancelURL      string
	Metadata       map[string]string
}

type CheckoutSessionRes struct {
	ID  string
	URL string
}

type PayoutAccountReq struct {
	Email string
}

// UploadCoverReq — запрос на загрузку обложки товара.
type UploadCoverReq struct {
	Slug  string
	Image ProductImage
}

// WriteRawMessageReq — готовое к публикации событие outbox.
type WriteRawMessageReq struct {
	Key       string
	EventID   string
	EventType string
	Payload   []byte
}

// MAPPERS

func NewRegisterAccountReq(email, username, name, password string) *RegisterAccountReq {
	return &RegisterAccountReq{
		Email:    email,
		Username: username,
		Name:     name,
		Password: password,
	}
}

func NewLoginReq(email, password string) *LoginReq {
	return &LoginReq{Email: email, Password: password}
}

func NewCreateProductReq(ownerID int64, name, description string, price int64, contentURL *string, cover *ProductImage) *CreateProductReq {
	return &CreateProductReq{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Price:       price,
		ContentURL:  contentURL,
		Cover:       cover,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewUploadCoverReq(slug string, image ProductImage) *UploadCoverReq {
	return &UploadCoverReq{Slug: slug, Image: image}
}

func NewWriteRawMessageReq(event *OutboxEvent) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       event.AggregateKey,
		EventID:   event.EventID,
		EventType: string(event.EventType),
		Payload:   event.Payload,
	}
}
