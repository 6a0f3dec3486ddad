// Package intake is the public webhook surface: the writing tool POSTs a
// document payload to a per-collection endpoint identified by its opaque
// token.
package intake

import (
	"encoding/json"
	"fmt"

	"github.com/betheshoe/draftin-core/internal/modules/content/collection"
	"github.com/betheshoe/draftin-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler wires the webhook endpoint.
type Handler struct {
	svc         *Service
	collections *collection.Service
	log         *zap.Logger
}

func NewHandler(svc *Service, collections *collection.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, collections: collections, log: log}
}

// RegisterRoutes binds the endpoint, optionally behind extra middleware such
// as delivery dedupe.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mws ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mws...), h.receive)
	rg.POST("/collections/:uuid", handlers...)
}

func (h *Handler) receive(c *gin.Context) {
	col, err := h.collections.GetByUUID(c.Param("uuid"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if col == nil {
		response.NotFound(c)
		return
	}

	var payload Payload
	raw := c.PostForm("payload")
	if raw == "" || json.Unmarshal([]byte(raw), &payload) != nil {
		response.BadRequest(c, "Something is wrong with your post.")
		return
	}

	if key := payload.MissingKey(); key != "" {
		response.BadRequest(c, fmt.Sprintf("%s is required", key))
		return
	}

	d, created, err := h.svc.Upsert(col, &payload)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	h.log.Info("draft received",
		zap.String("collection", col.UUID),
		zap.Int64("draft_id", *payload.ID),
		zap.String("draft", d.ID),
		zap.Bool("created", created),
	)
	response.Text(c, "Thanks!")
}
