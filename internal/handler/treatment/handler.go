// Package treatment exposes the procedure catalog endpoints.
package treatment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yarachoice/clinic-api/internal/handler"
	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/treatment"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

type Handler struct {
	treatments *treatment.Service
}

func NewHandler(treatments *treatment.Service) *Handler {
	return &Handler{treatments: treatments}
}

// List returns non-deleted treatments; ?category= narrows to one procedure
// category.
func (h *Handler) List(c *gin.Context) {
	var (
		items []model.Treatment
		err   error
	)
	if category := c.Query("category"); category != "" {
		items, err = h.treatments.ListByCategory(c.Request.Context(), model.TreatmentCategory(category))
	} else {
		items, err = h.treatments.ListActive(c.Request.Context())
	}
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, items)
}

func (h *Handler) ListPaginated(c *gin.Context) {
	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		handler.BindError(c, err)
		return
	}

	page, err := h.treatments.ListPage(c.Request.Context(), bson.M{"isDeleted": false}, p)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, page)
}

func (h *Handler) Get(c *gin.Context) {
	item, err := h.treatments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, item)
}

func (h *Handler) Search(c *gin.Context) {
	var criteria model.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		handler.BindError(c, err)
		return
	}

	items, err := h.treatments.Search(c.Request.Context(), criteria)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, items)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	item, err := h.treatments.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusCreated, item)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	item, err := h.treatments.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, item)
}

func (h *Handler) Delete(c *gin.Context) {
	ok, err := h.treatments.SoftDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !ok {
		handler.Error(c, apperrors.NotFound("treatment"))
		return
	}
	c.Status(http.StatusNoContent)
}
