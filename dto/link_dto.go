package dto

type CreateLinkDTO struct {
	Title       string `json:"title" binding:"required,max=255"`
	URL         string `json:"url" binding:"required,url,max=255"`
	Description string `json:"description"`
}

type UpdateLinkDTO struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=255"`
	URL         *string `json:"url,omitempty" binding:"omitempty,url,max=255"`
	Description *string `json:"description,omitempty"`
}
