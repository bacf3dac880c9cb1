package models

import "time"

type Book struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string    `json:"title" gorm:"not null"`
	Description     *string   `json:"description,omitempty" gorm:"type:text"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	CategoryID      *int64    `json:"category_id,omitempty" gorm:"index"`
	ImageURL        *string   `json:"image_url,omitempty"`
	FileURL         *string   `json:"file_url,omitempty"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// associations
	Authors  []Author  `json:"authors,omitempty" gorm:"many2many:book_authors;constraint:OnDelete:CASCADE;"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (Book) TableName() string {
	return "books"
}
