// Package router wires the middleware chain and the versioned API surface.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/yarachoice/clinic-api/internal/config"
	appointmenthandler "github.com/yarachoice/clinic-api/internal/handler/appointment"
	authhandler "github.com/yarachoice/clinic-api/internal/handler/auth"
	chathandler "github.com/yarachoice/clinic-api/internal/handler/chat"
	doctorhandler "github.com/yarachoice/clinic-api/internal/handler/doctor"
	patienthandler "github.com/yarachoice/clinic-api/internal/handler/patient"
	producthandler "github.com/yarachoice/clinic-api/internal/handler/product"
	treatmenthandler "github.com/yarachoice/clinic-api/internal/handler/treatment"
	userhandler "github.com/yarachoice/clinic-api/internal/handler/user"
	"github.com/yarachoice/clinic-api/internal/middleware"
	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/pkg/auth"
	"github.com/yarachoice/clinic-api/pkg/metrics"
)

type Handlers struct {
	Auth         *authhandler.Handler
	Users        *userhandler.Handler
	Doctors      *doctorhandler.Handler
	Patients     *patienthandler.Handler
	Products     *producthandler.Handler
	Treatments   *treatmenthandler.Handler
	Appointments *appointmenthandler.Handler
	Chat         *chathandler.Handler
}

func New(cfg *config.Config, tokens auth.JWTService, m *metrics.Metrics, h Handlers, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics(m))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	authn := middleware.Authenticate(tokens)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh-token", h.Auth.Refresh)
		authGroup.POST("/revoke", authn, middleware.RequirePermission(model.PermManageUsers), h.Auth.Revoke)
		authGroup.POST("/change-password", authn, h.Auth.ChangePassword)
	}

	users := api.Group("/users", authn, middleware.RequirePermission(model.PermManageUsers))
	{
		users.GET("", h.Users.List)
		users.GET("/paginated", h.Users.ListPaginated)
		users.GET("/:id", h.Users.Get)
		users.POST("/search", h.Users.Search)
		users.POST("", h.Users.Create)
		users.PUT("/:id", h.Users.Update)
		users.DELETE("/:id", h.Users.Delete)
	}

	doctors := api.Group("/doctors", authn)
	{
		doctors.GET("", middleware.RequirePermission(model.PermViewDoctors), h.Doctors.List)
		doctors.GET("/paginated", middleware.RequirePermission(model.PermViewDoctors), h.Doctors.ListPaginated)
		doctors.GET("/:id", middleware.RequirePermission(model.PermViewDoctors), h.Doctors.Get)
		doctors.POST("/search", middleware.RequirePermission(model.PermViewDoctors), h.Doctors.Search)
		doctors.POST("", middleware.RequirePermission(model.PermCreateDoctor), h.Doctors.Create)
		doctors.PUT("/:id", middleware.RequirePermission(model.PermManageDoctor), h.Doctors.Update)
		doctors.DELETE("/:id", middleware.RequirePermission(model.PermDeleteDoctor), h.Doctors.Delete)
	}

	patients := api.Group("/patients", authn)
	{
		patients.GET("", middleware.RequirePermission(model.PermViewPatients), h.Patients.List)
		patients.GET("/paginated", middleware.RequirePermission(model.PermViewPatients), h.Patients.ListPaginated)
		patients.GET("/:id", middleware.RequirePermission(model.PermViewPatients), h.Patients.Get)
		patients.POST("/search", middleware.RequirePermission(model.PermViewPatients), h.Patients.Search)
		patients.POST("", middleware.RequirePermission(model.PermCreatePatient), h.Patients.Create)
		patients.PUT("/:id", middleware.RequirePermission(model.PermManagePatient), h.Patients.Update)
		patients.DELETE("/:id", middleware.RequirePermission(model.PermDeletePatient), h.Patients.Delete)
	}

	products := api.Group("/products", authn)
	{
		products.GET("", middleware.RequirePermission(model.PermViewProducts), h.Products.List)
		products.GET("/paginated", middleware.RequirePermission(model.PermViewProducts), h.Products.ListPaginated)
		products.GET("/:id", middleware.RequirePermission(model.PermViewProducts), h.Products.Get)
		products.POST("/search", middleware.RequirePermission(model.PermViewProducts), h.Products.Search)
		products.POST("", middleware.RequirePermission(model.PermCreateProduct), h.Products.Create)
		products.PUT("/:id", middleware.RequirePermission(model.PermManageProduct), h.Products.Update)
		products.DELETE("/:id", middleware.RequirePermission(model.PermDeleteProduct), h.Products.Delete)
	}

	treatments := api.Group("/treatments", authn)
	{
		treatments.GET("", middleware.RequirePermission(model.PermViewTreatments), h.Treatments.List)
		treatments.GET("/paginated", middleware.RequirePermission(model.PermViewTreatments), h.Treatments.ListPaginated)
		treatments.GET("/:id", middleware.RequirePermission(model.PermViewTreatments), h.Treatments.Get)
		treatments.POST("/search", middleware.RequirePermission(model.PermViewTreatments), h.Treatments.Search)
		treatments.POST("", middleware.RequirePermission(model.PermCreateTreatment), h.Treatments.Create)
		treatments.PUT("/:id", middleware.RequirePermission(model.PermManageTreatment), h.Treatments.Update)
		treatments.DELETE("/:id", middleware.RequirePermission(model.PermDeleteTreatment), h.Treatments.Delete)
	}

	appointments := api.Group("/appointments", authn)
	{
		appointments.GET("", middleware.RequirePermission(model.PermViewAppointments), h.Appointments.List)
		appointments.GET("/paginated", middleware.RequirePermission(model.PermViewAppointments), h.Appointments.ListPaginated)
		appointments.GET("/:id", middleware.RequirePermission(model.PermViewAppointments), h.Appointments.Get)
		appointments.POST("/search", middleware.RequirePermission(model.PermViewAppointments), h.Appointments.Search)
		appointments.POST("", middleware.RequirePermission(model.PermCreateAppointment), h.Appointments.Create)
		appointments.PUT("/:id", middleware.RequirePermission(model.PermManageAppointment), h.Appointments.Update)
		appointments.POST("/:id/cancel", middleware.RequirePermission(model.PermCancelAppointment), h.Appointments.Cancel)
		appointments.DELETE("/:id", middleware.RequirePermission(model.PermManageAppointment), h.Appointments.Delete)
	}

	chat := api.Group("/chat", authn)
	{
		chat.GET("/ws", h.Chat.Connect)
		chat.GET("/conversations", h.Chat.Conversations)
		chat.GET("/messages/:peer_id", h.Chat.Messages)
		chat.GET("/unread", h.Chat.Unread)
	}

	return r
}
