// Package doctor exposes the practitioner endpoints.
package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yarachoice/clinic-api/internal/handler"
	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/doctor"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

type Handler struct {
	doctors *doctor.Service
}

func NewHandler(doctors *doctor.Service) *Handler {
	return &Handler{doctors: doctors}
}

// List returns non-deleted doctors; ?available=true narrows to those
// currently accepting appointments.
func (h *Handler) List(c *gin.Context) {
	var (
		docs []model.Doctor
		err  error
	)
	if c.Query("available") == "true" {
		docs, err = h.doctors.ListAvailable(c.Request.Context())
	} else {
		docs, err = h.doctors.ListActive(c.Request.Context())
	}
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, docs)
}

func (h *Handler) ListPaginated(c *gin.Context) {
	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		handler.BindError(c, err)
		return
	}

	page, err := h.doctors.ListPage(c.Request.Context(), bson.M{"isDeleted": false}, p)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, page)
}

func (h *Handler) Get(c *gin.Context) {
	d, err := h.doctors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, d)
}

func (h *Handler) Search(c *gin.Context) {
	var criteria model.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		handler.BindError(c, err)
		return
	}

	docs, err := h.doctors.Search(c.Request.Context(), criteria)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, docs)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	d, err := h.doctors.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusCreated, d)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	d, err := h.doctors.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, d)
}

func (h *Handler) Delete(c *gin.Context) {
	ok, err := h.doctors.SoftDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !ok {
		handler.Error(c, apperrors.NotFound("doctor"))
		return
	}
	c.Status(http.StatusNoContent)
}
