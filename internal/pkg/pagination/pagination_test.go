package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryFor(t *testing.T, rawQuery string) Query {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/drafts?"+rawQuery, nil)
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", DefaultPage, DefaultSize},
		{"explicit", "page=3&size=10", 3, 10},
		{"size clamped to max", "size=500", DefaultPage, MaxSize},
		{"negative page floored", "page=-1", 1, DefaultSize},
		{"garbage falls back", "page=abc&size=xyz", DefaultPage, DefaultSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := queryFor(t, tt.query)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantSize, q.Size)
		})
	}
}
