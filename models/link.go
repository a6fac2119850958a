package models

import "time"

type Link struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	URL         string    `gorm:"size:255;not null" json:"url"`
	Description string    `gorm:"type:text" json:"description"`
	Validated   bool      `gorm:"not null" json:"validated"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
