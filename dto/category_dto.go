package dto

type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required,max=100"`
}

type UpdateCategoryDTO struct {
	Name string `json:"name" binding:"required,max=100"`
}
