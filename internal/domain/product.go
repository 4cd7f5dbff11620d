package domain

import "time"

// Product описывает цифровой товар, выставленный автором на продажу
type Product struct {
	ID          int64
	OwnerID     int64
	Slug        string
	Name        string
	Description string
	Price       int64   // Цена хранится в центах, минимум 1
	CoverKey    *string // Ключ обложки в S3
	ContentURL  *string // Внешнее расположение контента
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewProduct(ownerID int64, slug, name, description string, price int64, contentURL *string) *Product {
	return &Product{
		OwnerID:     ownerID,
		Slug:        slug,
		Name:        name,
		Description: description,
		Price:       price,
		ContentURL:  contentURL,
		IsActive:    true,
	}
}

// IsOwnedBy сообщает, принадлежит ли товар указанному аккаунту.
func (p *Product) IsOwnedBy(accountID int64) bool {
	return p.OwnerID == accountID
}
