package models

import (
	"net/url"
	"strings"
	"time"

	"github.com/betheshoe/draftin-core/internal/pkg/htmlutil"
)

// DraftModel is a single document record, sourced either by direct push from
// the writing tool (DraftID set) or by scraping an external URL.
type DraftModel struct {
	Base
	CollectionID string           `json:"collection_id" gorm:"type:char(36);index;not null"`
	Collection   *CollectionModel `json:"collection,omitempty" gorm:"foreignKey:CollectionID"`

	// DraftID is the document id in the origin tool. Set only for push-origin
	// drafts, immutable after creation.
	DraftID      *int64  `json:"draft_id,omitempty" gorm:"index:idx_draft_origin"`
	ExternalURL  string  `json:"external_url,omitempty"`
	CanonicalURL string  `json:"canonical_url,omitempty"`

	PublicationID *string           `json:"publication_id,omitempty" gorm:"type:char(36);index"`
	Publication   *PublicationModel `json:"publication,omitempty" gorm:"foreignKey:PublicationID"`

	Name        string `json:"name" gorm:"size:512"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:255"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"      gorm:"type:longtext"`
	ContentHTML string `json:"content_html" gorm:"type:longtext"`
	Image       string `json:"image,omitempty"`

	UserID    *int64 `json:"user_id,omitempty"`
	UserEmail string `json:"user_email,omitempty"`

	LastSyncedAt  time.Time  `json:"last_synced_at"`
	Published     bool       `json:"published" gorm:"default:false;index"`
	DatePublished *time.Time `json:"date_published,omitempty"`
}

func (DraftModel) TableName() string { return "drafts" }

// Wordcount counts tokens of the content with HTML stripped. Tokens are
// separated by single spaces; empty tokens are dropped.
func (d *DraftModel) Wordcount() int {
	text := htmlutil.StripTags(d.Content)
	count := 0
	for _, tok := range strings.Split(text, " ") {
		if tok != "" {
			count++
		}
	}
	return count
}

// Domain returns the hostname of the canonical URL, falling back to the
// external URL. Empty when neither parses.
func (d *DraftModel) Domain() string {
	for _, raw := range []string{d.CanonicalURL, d.ExternalURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			continue
		}
		return u.Hostname()
	}
	return ""
}

// HasPushOrigin reports whether the draft came from a direct webhook push.
func (d *DraftModel) HasPushOrigin() bool { return d.DraftID != nil }

// HasScrapeOrigin reports whether the draft is sourced from an external URL.
func (d *DraftModel) HasScrapeOrigin() bool { return d.ExternalURL != "" }
