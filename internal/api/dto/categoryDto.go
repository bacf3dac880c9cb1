package dto

import "bookhub/internal/api/models"

// CreateCategoryDTO used for POST /categories
type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCategoryDTO used for PUT /categories/:id
type UpdateCategoryDTO struct {
	Name string `json:"name" binding:"required"`
}

func (d CreateCategoryDTO) ToModel() models.Category {
	return models.Category{Name: d.Name}
}
