package http

import (
	"time"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
)

type ProductResponse struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       int64      `json:"price"` // в центах
	CoverKey    *string    `json:"cover_key,omitempty"`
	ContentURL  *string    `json:"content_url,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

type AccountResponse struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	PayoutsEnabled bool   `json:"payouts_enabled"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Account         AccountResponse `json:"account"`
	Token           string          `json:"token"`
	ClaimedProducts []int64         `json:"claimed_products"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccountID int64  `json:"account_id"`
	Token     string `json:"token"`
}

// UpdateProductRequest — частичное обновление, отсутствующие поля не меняются.
// Цена передаётся десятичной строкой, как и в форме создания.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	ContentURL  *string `json:"content_url"`
	IsActive    *bool   `json:"is_active"`
}

type CheckoutResponse struct {
	ID string `json:"id"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CoverKey:    p.CoverKey,
		ContentURL:  p.ContentURL,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductListResponse(products []domain.Product) ProductListResponse {
	res := ProductListResponse{Products: make([]ProductResponse, 0, len(products))}
	for i := range products {
		res.Products = append(res.Products, toProductResponse(&products[i]))
	}
	return res
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Email:          a.Email,
		Username:       a.Username,
		Name:           a.Name,
		PayoutsEnabled: a.PayoutsEnabled,
	}
}
