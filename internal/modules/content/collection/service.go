package collection

import (
	"errors"

	"github.com/betheshoe/draftin-core/internal/models"
	"gorm.io/gorm"
)

// Service handles collection business logic.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns all collections, newest first.
func (s *Service) List() ([]models.CollectionModel, error) {
	var items []models.CollectionModel
	return items, s.db.Order("created_at DESC").Find(&items).Error
}

// GetByID fetches a collection by primary key.
func (s *Service) GetByID(id string) (*models.CollectionModel, error) {
	var col models.CollectionModel
	if err := s.db.First(&col, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &col, nil
}

// GetByUUID fetches a collection by its opaque webhook token.
func (s *Service) GetByUUID(token string) (*models.CollectionModel, error) {
	var col models.CollectionModel
	if err := s.db.First(&col, "uuid = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &col, nil
}

// Create inserts a new collection. The webhook token is generated by the
// model hook and never regenerated.
func (s *Service) Create(dto *CreateCollectionDTO) (*models.CollectionModel, error) {
	col := models.CollectionModel{
		Name:        dto.Name,
		OwnerKind:   dto.OwnerKind,
		OwnerID:     dto.OwnerID,
		AutoPublish: true,
	}
	if dto.AutoPublish != nil {
		col.AutoPublish = *dto.AutoPublish
	}
	return &col, s.db.Create(&col).Error
}

// Update patches a collection. The token is not updatable.
func (s *Service) Update(id string, dto *UpdateCollectionDTO) (*models.CollectionModel, error) {
	col, err := s.GetByID(id)
	if err != nil || col == nil {
		return col, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.OwnerKind != nil {
		updates["owner_kind"] = *dto.OwnerKind
	}
	if dto.OwnerID != nil {
		updates["owner_id"] = dto.OwnerID
	}
	if dto.AutoPublish != nil {
		updates["auto_publish"] = *dto.AutoPublish
	}
	return col, s.db.Model(col).Updates(updates).Error
}

// Delete removes a collection; its drafts cascade with it.
func (s *Service) Delete(id string) error {
	return s.db.Select("Drafts").Delete(&models.CollectionModel{Base: models.Base{ID: id}}).Error
}

// DraftCount returns how many drafts a collection holds.
func (s *Service) DraftCount(id string) (int64, error) {
	var count int64
	err := s.db.Model(&models.DraftModel{}).Where("collection_id = ?", id).Count(&count).Error
	return count, err
}
