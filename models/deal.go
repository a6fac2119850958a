package models

import "time"

type Deal struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	ImageURL         string    `gorm:"size:255" json:"imageUrl"`
	Price            float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	DealURL          string    `gorm:"size:255" json:"dealUrl"`
	IsActive         bool      `gorm:"not null" json:"isActive"`
	ManagerValidated bool      `gorm:"not null" json:"managerValidated"`
	AdminValidated   bool      `gorm:"not null" json:"adminValidated"`
	Published        bool      `gorm:"not null" json:"published"`
	CategoryID       *uint     `gorm:"index" json:"categoryId"`
	Category         *Category `json:"category,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// DealWithLikes is a deal decorated with its current like count.
type DealWithLikes struct {
	Deal
	LikeCount int64 `json:"likeCount"`
}

// One like per (user, deal).
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_deal" json:"userId"`
	DealID    uint      `gorm:"not null;uniqueIndex:idx_like_user_deal;index" json:"dealId"`
	CreatedAt time.Time `json:"createdAt"`
}
