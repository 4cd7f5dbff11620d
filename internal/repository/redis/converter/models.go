package converter

import "time"

// ProductRedisModel — представление товара в кэше.
type ProductRedisModel struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       int64      `json:"price"`
	CoverKey    *string    `json:"cover_key,omitempty"`
	ContentURL  *string    `json:"content_url,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
