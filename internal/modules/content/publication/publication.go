// Package publication manages named external outlets drafts are attributed
// to. No lifecycle beyond create/update; the slug is recomputed from the name
// on every save by the model hook.
package publication

import (
	"errors"

	"github.com/betheshoe/draftin-core/internal/models"
	"github.com/betheshoe/draftin-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.PublicationModel, error) {
	var items []models.PublicationModel
	return items, s.db.Order("name ASC").Find(&items).Error
}

func (s *Service) GetByID(id string) (*models.PublicationModel, error) {
	var p models.PublicationModel
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(name string) (*models.PublicationModel, error) {
	p := models.PublicationModel{Name: name}
	return &p, s.db.Create(&p).Error
}

func (s *Service) Rename(id, name string) (*models.PublicationModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}
	p.Name = name
	// Save, not Updates, so the BeforeSave slug hook sees the new name.
	return p, s.db.Save(p).Error
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.PublicationModel{}, "id = ?", id).Error
}

type publicationDTO struct {
	Name string `json:"name" binding:"required"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/publications")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, p)
}

func (h *Handler) create(c *gin.Context) {
	var dto publicationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(dto.Name)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) update(c *gin.Context) {
	var dto publicationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Rename(c.Param("id"), dto.Name)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, p)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
