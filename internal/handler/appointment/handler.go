// Package appointment exposes the booking endpoints.
package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yarachoice/clinic-api/internal/handler"
	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/appointment"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

type Handler struct {
	appointments *appointment.Service
}

func NewHandler(appointments *appointment.Service) *Handler {
	return &Handler{appointments: appointments}
}

// List returns non-deleted appointments; ?doctor_id= or ?patient_id= narrows
// to one calendar.
func (h *Handler) List(c *gin.Context) {
	var (
		items []model.Appointment
		err   error
	)
	switch {
	case c.Query("doctor_id") != "":
		items, err = h.appointments.ListByDoctor(c.Request.Context(), c.Query("doctor_id"))
	case c.Query("patient_id") != "":
		items, err = h.appointments.ListByPatient(c.Request.Context(), c.Query("patient_id"))
	default:
		items, err = h.appointments.ListActive(c.Request.Context())
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

	page, err := h.appointments.ListPage(c.Request.Context(), bson.M{"isDeleted": false}, p)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, page)
}

func (h *Handler) Get(c *gin.Context) {
	item, err := h.appointments.Get(c.Request.Context(), c.Param("id"))
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

	items, err := h.appointments.Search(c.Request.Context(), criteria)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, items)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	item, err := h.appointments.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusCreated, item)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	item, err := h.appointments.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, item)
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

func (h *Handler) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	item, err := h.appointments.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, item)
}

func (h *Handler) Delete(c *gin.Context) {
	ok, err := h.appointments.SoftDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !ok {
		handler.Error(c, apperrors.NotFound("appointment"))
		return
	}
	c.Status(http.StatusNoContent)
}
