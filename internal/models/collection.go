package models

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionModel is a webhook target grouping drafts. It can be attached to
// another kind of content, like a site or a blog, through the tagged
// OwnerKind/OwnerID reference.
type CollectionModel struct {
	Base
	UUID        string  `json:"uuid"         gorm:"uniqueIndex;type:char(36);not null"`
	Name        string  `json:"name"`
	OwnerKind   string  `json:"owner_kind,omitempty"  gorm:"index:idx_collection_owner"`
	OwnerID     *string `json:"owner_id,omitempty"    gorm:"index:idx_collection_owner;type:char(36)"`
	AutoPublish bool    `json:"auto_publish" gorm:"default:true"`

	Drafts []DraftModel `json:"drafts,omitempty" gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
}

func (CollectionModel) TableName() string { return "collections" }

// BeforeCreate assigns the opaque webhook token exactly once. It is never
// regenerated afterwards.
func (c *CollectionModel) BeforeCreate(tx *gorm.DB) error {
	if err := c.Base.BeforeCreate(tx); err != nil {
		return err
	}
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

// DisplayName returns the collection name, falling back to a generated
// placeholder referencing its row.
func (c *CollectionModel) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("Collection No. %s", c.ID)
}

// EndpointPath is the webhook path drafts are posted to.
func (c *CollectionModel) EndpointPath() string {
	return "/collections/" + c.UUID
}
