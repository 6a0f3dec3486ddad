package intake

import (
	"errors"
	"time"

	"github.com/betheshoe/draftin-core/internal/models"
	"github.com/betheshoe/draftin-core/internal/modules/content/draft"
	"gorm.io/gorm"
)

// Service upserts drafts from webhook deliveries. The upsert is keyed on
// (draft_id, collection), so redeliveries and edits update in place.
type Service struct {
	db     *gorm.DB
	drafts *draft.Service
}

func NewService(db *gorm.DB, drafts *draft.Service) *Service {
	return &Service{db: db, drafts: drafts}
}

// Upsert creates or updates the draft for the payload. New drafts default
// published to the collection's auto_publish flag. The scrape pipeline never
// runs here: push-origin drafts carry their own content.
func (s *Service) Upsert(col *models.CollectionModel, p *Payload) (*models.DraftModel, bool, error) {
	var d models.DraftModel
	created := false

	err := s.db.Where("draft_id = ? AND collection_id = ?", *p.ID, col.ID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created = true
		d = models.DraftModel{
			CollectionID: col.ID,
			DraftID:      p.ID,
			Published:    col.AutoPublish,
		}
		if t, perr := time.Parse(time.RFC3339, *p.CreatedAt); perr == nil {
			d.CreatedAt = t
		}
	} else if err != nil {
		return nil, false, err
	}

	d.Name = *p.Name
	d.Content = *p.Content
	d.ContentHTML = *p.ContentHTML
	d.UserID = p.User.ID
	d.UserEmail = *p.User.Email

	if err := s.drafts.Save(&d); err != nil {
		return nil, false, err
	}
	return &d, created, nil
}
