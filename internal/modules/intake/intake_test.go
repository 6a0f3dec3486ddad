package intake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/betheshoe/draftin-core/internal/database"
	"github.com/betheshoe/draftin-core/internal/models"
	"github.com/betheshoe/draftin-core/internal/modules/content/collection"
	"github.com/betheshoe/draftin-core/internal/modules/content/draft"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupWebhook(t *testing.T) (*gin.Engine, *gorm.DB, *models.CollectionModel) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	col := models.CollectionModel{Name: "Inbox"}
	require.NoError(t, db.Create(&col).Error)

	drafts := draft.NewService(db, nil)
	handler := NewHandler(NewService(db, drafts), collection.NewService(db), nil)

	r := gin.New()
	handler.RegisterRoutes(r.Group(""))
	return r, db, &col
}

func documentPayload(id int64, name, content string) map[string]interface{} {
	return map[string]interface{}{
		"id":           id,
		"name":         name,
		"content":      content,
		"content_html": "<p>" + content + "</p>",
		"user":         map[string]interface{}{"id": 1, "email": "author@example.com"},
		"created_at":   "2013-05-23T14:11:54-05:00",
		"updated_at":   "2013-05-23T14:11:58-05:00",
	}
}

func postPayload(t *testing.T, r *gin.Engine, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var raw string
	switch v := payload.(type) {
	case string:
		raw = v
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		raw = string(b)
	}

	form := url.Values{"payload": {raw}}
	req := httptest.NewRequest(http.MethodPost, "/collections/"+token, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookCreatesDraft(t *testing.T) {
	r, db, col := setupWebhook(t)

	w := postPayload(t, r, col.UUID, documentPayload(5, "My Post", "hello world"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Thanks!", w.Body.String())

	var d models.DraftModel
	require.NoError(t, db.First(&d, "collection_id = ?", col.ID).Error)
	assert.Equal(t, int64(5), *d.DraftID)
	assert.Equal(t, "My Post", d.Name)
	assert.Equal(t, "hello world", d.Content)
	assert.Equal(t, "<p>hello world</p>", d.ContentHTML)
	assert.Equal(t, "author@example.com", d.UserEmail)
	assert.Equal(t, "my-post", d.Slug)
	assert.True(t, d.Published) // auto_publish defaults on
}

func TestWebhookRedeliveryUpdatesInPlace(t *testing.T) {
	r, db, col := setupWebhook(t)

	require.Equal(t, http.StatusOK, postPayload(t, r, col.UUID, documentPayload(5, "My Post", "v1")).Code)
	require.Equal(t, http.StatusOK, postPayload(t, r, col.UUID, documentPayload(5, "My Post", "v2")).Code)

	var count int64
	db.Model(&models.DraftModel{}).Count(&count)
	assert.EqualValues(t, 1, count)

	var d models.DraftModel
	require.NoError(t, db.First(&d, "draft_id = ?", 5).Error)
	assert.Equal(t, "v2", d.Content)
}

func TestWebhookAcceptsBlankName(t *testing.T) {
	r, db, col := setupWebhook(t)

	w := postPayload(t, r, col.UUID, documentPayload(9, "", "untitled body"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Thanks!", w.Body.String())

	var d models.DraftModel
	require.NoError(t, db.First(&d, "draft_id = ?", 9).Error)
	assert.Empty(t, d.Name)
	assert.NotEmpty(t, d.Slug)
}

func TestWebhookRespectsAutoPublishOff(t *testing.T) {
	r, db, col := setupWebhook(t)
	require.NoError(t, db.Model(col).Update("auto_publish", false).Error)

	require.Equal(t, http.StatusOK, postPayload(t, r, col.UUID, documentPayload(7, "Quiet", "c")).Code)

	var d models.DraftModel
	require.NoError(t, db.First(&d, "draft_id = ?", 7).Error)
	assert.False(t, d.Published)
	assert.Nil(t, d.DatePublished)
}

func TestWebhookMissingKey(t *testing.T) {
	r, _, col := setupWebhook(t)

	payload := documentPayload(5, "My Post", "c")
	delete(payload, "content_html")

	w := postPayload(t, r, col.UUID, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "content_html is required")
}

func TestWebhookMalformedPayload(t *testing.T) {
	r, _, col := setupWebhook(t)

	for _, raw := range []string{"", "{not json"} {
		w := postPayload(t, r, col.UUID, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Something is wrong with your post.")
	}
}

func TestWebhookUnknownToken(t *testing.T) {
	r, _, _ := setupWebhook(t)

	w := postPayload(t, r, "no-such-token", documentPayload(1, "X", "c"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMissingKeyOrder(t *testing.T) {
	p := &Payload{}
	assert.Equal(t, "id", p.MissingKey())

	id := int64(1)
	p.ID = &id
	assert.Equal(t, "name", p.MissingKey())

	s := "x"
	p.Name, p.Content, p.ContentHTML = &s, &s, &s
	assert.Equal(t, "user.id", p.MissingKey())

	p.User = &PayloadUser{ID: &id}
	assert.Equal(t, "user.email", p.MissingKey())

	p.User.Email = &s
	assert.Equal(t, "created_at", p.MissingKey())

	p.CreatedAt, p.UpdatedAt = &s, &s
	assert.Equal(t, "", p.MissingKey())
}
