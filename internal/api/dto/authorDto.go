package dto

import "bookhub/internal/api/models"

// CreateAuthorDTO used for POST /authors
type CreateAuthorDTO struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// UpdateAuthorDTO used for PUT /authors/:id
type UpdateAuthorDTO struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

func (d CreateAuthorDTO) ToModel() models.Author {
	return models.Author{FirstName: d.FirstName, LastName: d.LastName}
}

func (d UpdateAuthorDTO) ApplyTo(a *models.Author) {
	if d.FirstName != nil {
		a.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		a.LastName = *d.LastName
	}
}
