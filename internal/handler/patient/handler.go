// Package patient exposes the patient record endpoints.
package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yarachoice/clinic-api/internal/handler"
	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/patient"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

type Handler struct {
	patients *patient.Service
}

func NewHandler(patients *patient.Service) *Handler {
	return &Handler{patients: patients}
}

func (h *Handler) List(c *gin.Context) {
	pts, err := h.patients.ListActive(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, pts)
}

func (h *Handler) ListPaginated(c *gin.Context) {
	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		handler.BindError(c, err)
		return
	}

	page, err := h.patients.ListPage(c.Request.Context(), bson.M{"isDeleted": false}, p)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, page)
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.patients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, p)
}

func (h *Handler) Search(c *gin.Context) {
	var criteria model.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		handler.BindError(c, err)
		return
	}

	pts, err := h.patients.Search(c.Request.Context(), criteria)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, pts)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	p, err := h.patients.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusCreated, p)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	p, err := h.patients.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, p)
}

func (h *Handler) Delete(c *gin.Context) {
	ok, err := h.patients.SoftDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !ok {
		handler.Error(c, apperrors.NotFound("patient"))
		return
	}
	c.Status(http.StatusNoContent)
}
