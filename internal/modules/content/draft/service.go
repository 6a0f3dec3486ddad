package draft

import (
	"errors"
	"time"

	"github.com/betheshoe/draftin-core/internal/models"
	"github.com/betheshoe/draftin-core/internal/modules/ingest"
	"github.com/betheshoe/draftin-core/internal/pkg/pagination"
	"github.com/betheshoe/draftin-core/internal/pkg/response"
	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxSlugLength = 255

// ErrOriginRequired rejects drafts that carry neither a push origin id nor an
// external URL to scrape.
var ErrOriginRequired = errors.New("A Draft ID or External URL is required.")

// Service handles draft business logic: origin validation, slug assignment,
// publish stamping, and the scrape-save path.
type Service struct {
	db       *gorm.DB
	pipeline *ingest.Pipeline
}

func NewService(db *gorm.DB, pipeline *ingest.Pipeline) *Service {
	return &Service{db: db, pipeline: pipeline}
}

// List returns a paginated list of drafts, most recently updated first.
func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.DraftModel, response.Pagination, error) {
	tx := s.db.Model(&models.DraftModel{}).Order("updated_at DESC")
	if lq.CollectionID != nil {
		tx = tx.Where("collection_id = ?", *lq.CollectionID)
	}
	if lq.Published != nil {
		tx = tx.Where("published = ?", *lq.Published)
	}

	var drafts []models.DraftModel
	pag, err := pagination.Paginate(tx, q, &drafts)
	return drafts, pag, err
}

// GetByID fetches a single draft with its collection and publication.
func (s *Service) GetByID(id string) (*models.DraftModel, error) {
	var d models.DraftModel
	if err := s.db.Preload("Collection").Preload("Publication").First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// GetBySlug fetches a single draft by slug.
func (s *Service) GetBySlug(slugValue string) (*models.DraftModel, error) {
	var d models.DraftModel
	if err := s.db.Where("slug = ?", slugValue).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// Save validates the draft, applies derived fields, and persists it. Create
// or update is decided by whether the row exists.
func (s *Service) Save(d *models.DraftModel) error {
	if !d.HasPushOrigin() && !d.HasScrapeOrigin() {
		return ErrOriginRequired
	}

	if d.Slug == "" {
		proposed, err := s.proposeSlug(d)
		if err != nil {
			return err
		}
		d.Slug = proposed
	}

	if d.Published && d.DatePublished == nil {
		now := time.Now()
		d.DatePublished = &now
	}
	d.LastSyncedAt = time.Now()

	err := s.db.Save(d).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Storage-level slug conflict from a concurrent save. Regenerate the
		// suffix once and retry; a second conflict surfaces.
		d.Slug = suffixSlug(d.Slug)
		err = s.db.Save(d).Error
	}
	return err
}

// ScrapeAndSave runs the ingestion pipeline for a scrape-origin draft and
// persists the result. A fetch failure aborts before anything is written.
func (s *Service) ScrapeAndSave(d *models.DraftModel) error {
	if !d.HasScrapeOrigin() {
		return ErrOriginRequired
	}
	// Localized image paths are namespaced by draft id, so new records get
	// theirs before the pipeline runs.
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if err := s.pipeline.Run(d); err != nil {
		return err
	}
	return s.Save(d)
}

// Update patches a draft and re-saves it, re-running slug and publish logic.
// actorEmail fills the origin-user email when the record has none.
func (s *Service) Update(id string, dto *UpdateDraftDTO, actorEmail string) (*models.DraftModel, error) {
	d, err := s.GetByID(id)
	if err != nil || d == nil {
		return d, err
	}

	if dto.Name != nil {
		d.Name = *dto.Name
	}
	if dto.ExternalURL != nil {
		d.ExternalURL = *dto.ExternalURL
	}
	if dto.CanonicalURL != nil {
		d.CanonicalURL = *dto.CanonicalURL
	}
	if dto.PublicationID != nil {
		d.PublicationID = dto.PublicationID
	}
	if dto.Description != nil {
		d.Description = *dto.Description
	}
	if dto.Content != nil {
		d.Content = *dto.Content
	}
	if dto.Image != nil {
		d.Image = *dto.Image
	}
	if dto.Published != nil {
		d.Published = *dto.Published
	}
	if d.UserEmail == "" {
		d.UserEmail = actorEmail
	}

	if dto.Rescrape && d.HasScrapeOrigin() {
		if err := s.pipeline.Run(d); err != nil {
			return nil, err
		}
	}

	if err := s.Save(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a draft.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.DraftModel{}, "id = ?", id).Error
}

// proposeSlug derives a slug from the name and resolves a collision with one
// freshly generated random suffix. One collision check, one resolution; no
// retry loop.
func (s *Service) proposeSlug(d *models.DraftModel) (string, error) {
	base, err := slug.Normalize(d.Name)
	if err != nil || base == "" {
		// Nameless drafts are accepted on the webhook; they get a token slug.
		base = uuid.New().String()
	}
	base = truncateSlug(base)

	var count int64
	tx := s.db.Model(&models.DraftModel{}).Where("slug = ?", base)
	if d.ID != "" {
		tx = tx.Where("id <> ?", d.ID)
	}
	if err := tx.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		base = suffixSlug(base)
	}
	return base, nil
}

// suffixSlug appends a random suffix, trimming the base so the whole slug
// stays inside the column budget and the suffix is never cut.
func suffixSlug(base string) string {
	suffix := "-" + uuid.New().String()
	if len(base)+len(suffix) > maxSlugLength {
		base = base[:maxSlugLength-len(suffix)]
	}
	return base + suffix
}

func truncateSlug(s string) string {
	if len(s) > maxSlugLength {
		return s[:maxSlugLength]
	}
	return s
}
