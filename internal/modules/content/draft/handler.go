package draft

import (
	"errors"

	"github.com/betheshoe/draftin-core/internal/models"
	"github.com/betheshoe/draftin-core/internal/modules/ingest"
	"github.com/betheshoe/draftin-core/internal/pkg/pagination"
	"github.com/betheshoe/draftin-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler wires admin draft endpoints.
type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/drafts")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if v := c.Query("collection_id"); v != "" {
		lq.CollectionID = &v
	}
	if v := c.Query("published"); v != "" {
		published := v == "true" || v == "1"
		lq.Published = &published
	}

	drafts, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]draftResponse, len(drafts))
	for i := range drafts {
		out[i] = toResponse(&drafts[i])
	}
	response.Paged(c, out, pag)
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if d == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(d))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateDraftDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	d := models.DraftModel{
		CollectionID:  dto.CollectionID,
		DraftID:       dto.DraftID,
		Name:          dto.Name,
		ExternalURL:   dto.ExternalURL,
		CanonicalURL:  dto.CanonicalURL,
		PublicationID: dto.PublicationID,
		Description:   dto.Description,
		Content:       dto.Content,
		Image:         dto.Image,
	}
	if dto.Published != nil {
		d.Published = *dto.Published
	}

	// A draft created with only an external URL is scraped before saving.
	var err error
	if d.HasScrapeOrigin() && d.Content == "" {
		err = h.svc.ScrapeAndSave(&d)
	} else {
		err = h.svc.Save(&d)
	}
	if err != nil {
		if errors.Is(err, ErrOriginRequired) || errors.Is(err, ingest.ErrScrapeFailed) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(&d))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateDraftDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	d, err := h.svc.Update(c.Param("id"), &dto, c.GetHeader("X-Actor-Email"))
	if err != nil {
		if errors.Is(err, ErrOriginRequired) || errors.Is(err, ingest.ErrScrapeFailed) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if d == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(d))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
