package collection

import (
	"github.com/betheshoe/draftin-core/internal/models"
	"github.com/betheshoe/draftin-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// CreateCollectionDTO creates a webhook target, optionally attached to an
// owning entity via the tagged reference.
type CreateCollectionDTO struct {
	Name        string  `json:"name"`
	OwnerKind   string  `json:"owner_kind"`
	OwnerID     *string `json:"owner_id"`
	AutoPublish *bool   `json:"auto_publish"`
}

// UpdateCollectionDTO patches a collection. Nil fields are left unchanged.
type UpdateCollectionDTO struct {
	Name        *string `json:"name"`
	OwnerKind   *string `json:"owner_kind"`
	OwnerID     *string `json:"owner_id"`
	AutoPublish *bool   `json:"auto_publish"`
}

type collectionResponse struct {
	models.CollectionModel
	DisplayName string `json:"display_name"`
	Webhook     string `json:"webhook"`
	DraftCount  int64  `json:"draft_count"`
}

// Handler wires admin collection endpoints.
type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/collections")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) toResponse(col *models.CollectionModel) collectionResponse {
	count, _ := h.svc.DraftCount(col.ID)
	return collectionResponse{
		CollectionModel: *col,
		DisplayName:     col.DisplayName(),
		Webhook:         col.EndpointPath(),
		DraftCount:      count,
	}
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]collectionResponse, len(items))
	for i := range items {
		out[i] = h.toResponse(&items[i])
	}
	response.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	col, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if col == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, h.toResponse(col))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCollectionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	col, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, h.toResponse(col))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCollectionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	col, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if col == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, h.toResponse(col))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
