package dto

type CreateDealDTO struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl" binding:"omitempty,url,max=255"`
	Price       float64 `json:"price" binding:"gte=0"`
	DealURL     string  `json:"dealUrl" binding:"omitempty,url,max=255"`
	IsActive    *bool   `json:"isActive"`
	Published   bool    `json:"published"`
	CategoryID  *uint   `json:"categoryId"`
}

type UpdateDealDTO struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty" binding:"omitempty,max=255"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	DealURL     *string  `json:"dealUrl,omitempty" binding:"omitempty,max=255"`
	IsActive    *bool    `json:"isActive,omitempty"`
	Published   *bool    `json:"published,omitempty"`
	CategoryID  *uint    `json:"categoryId,omitempty"`
}

// ValidateDealDTO records an admin or manager validation decision.
type ValidateDealDTO struct {
	Role      string `json:"role" binding:"required"`
	Validated *bool  `json:"validated" binding:"required"`
}
