package models

import (
	slug "github.com/goliatone/go-slug"
	"gorm.io/gorm"
)

// PublicationModel is a named external outlet drafts can be attributed to.
type PublicationModel struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"index"`
}

func (PublicationModel) TableName() string { return "publications" }

// BeforeSave recomputes the slug from the name on every save.
func (p *PublicationModel) BeforeSave(tx *gorm.DB) error {
	normalized, err := slug.Normalize(p.Name)
	if err != nil {
		return err
	}
	p.Slug = normalized
	return nil
}
