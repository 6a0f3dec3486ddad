package draft

import "github.com/betheshoe/draftin-core/internal/models"

// CreateDraftDTO creates a draft from the admin surface. A draft with only an
// external URL set goes through the scrape pipeline before persisting.
type CreateDraftDTO struct {
	CollectionID  string  `json:"collection_id" binding:"required"`
	DraftID       *int64  `json:"draft_id"`
	Name          string  `json:"name"`
	ExternalURL   string  `json:"external_url"`
	CanonicalURL  string  `json:"canonical_url"`
	PublicationID *string `json:"publication_id"`
	Description   string  `json:"description"`
	Content       string  `json:"content"`
	Image         string  `json:"image"`
	Published     *bool   `json:"published"`
}

// UpdateDraftDTO patches a draft. Nil fields are left unchanged.
type UpdateDraftDTO struct {
	Name          *string `json:"name"`
	ExternalURL   *string `json:"external_url"`
	CanonicalURL  *string `json:"canonical_url"`
	PublicationID *string `json:"publication_id"`
	Description   *string `json:"description"`
	Content       *string `json:"content"`
	Image         *string `json:"image"`
	Published     *bool   `json:"published"`
	Rescrape      bool    `json:"rescrape"`
}

// ListQuery holds optional draft list filters.
type ListQuery struct {
	CollectionID *string
	Published    *bool
}

// draftResponse augments the stored record with derived fields for admin
// read views.
type draftResponse struct {
	models.DraftModel
	Wordcount int    `json:"wordcount"`
	Domain    string `json:"domain"`
}

func toResponse(d *models.DraftModel) draftResponse {
	return draftResponse{
		DraftModel: *d,
		Wordcount:  d.Wordcount(),
		Domain:     d.Domain(),
	}
}
