package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yarachoice/clinic-api/internal/chat"
	"github.com/yarachoice/clinic-api/internal/config"
	"github.com/yarachoice/clinic-api/internal/email"
	appointmenthandler "github.com/yarachoice/clinic-api/internal/handler/appointment"
	authhandler "github.com/yarachoice/clinic-api/internal/handler/auth"
	chathandler "github.com/yarachoice/clinic-api/internal/handler/chat"
	doctorhandler "github.com/yarachoice/clinic-api/internal/handler/doctor"
	patienthandler "github.com/yarachoice/clinic-api/internal/handler/patient"
	producthandler "github.com/yarachoice/clinic-api/internal/handler/product"
	treatmenthandler "github.com/yarachoice/clinic-api/internal/handler/treatment"
	userhandler "github.com/yarachoice/clinic-api/internal/handler/user"
	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/repository/mongo"
	"github.com/yarachoice/clinic-api/internal/router"
	appointmentsvc "github.com/yarachoice/clinic-api/internal/service/appointment"
	authsvc "github.com/yarachoice/clinic-api/internal/service/auth"
	doctorsvc "github.com/yarachoice/clinic-api/internal/service/doctor"
	patientsvc "github.com/yarachoice/clinic-api/internal/service/patient"
	productsvc "github.com/yarachoice/clinic-api/internal/service/product"
	treatmentsvc "github.com/yarachoice/clinic-api/internal/service/treatment"
	usersvc "github.com/yarachoice/clinic-api/internal/service/user"
	"github.com/yarachoice/clinic-api/internal/validation"
	"github.com/yarachoice/clinic-api/pkg/auth"
	"github.com/yarachoice/clinic-api/pkg/logger"
	"github.com/yarachoice/clinic-api/pkg/metrics"
	"github.com/yarachoice/clinic-api/pkg/security"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, disconnect, err := mongo.Connect(ctx, mongo.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	m := metrics.New("clinic")

	users := mongo.NewCollection[model.User](db, "users", m)
	credentials := mongo.NewCollection[model.AuthCredential](db, "authUsers", m)
	doctors := mongo.NewCollection[model.Doctor](db, "doctors", m)
	patients := mongo.NewCollection[model.Patient](db, "patients", m)
	products := mongo.NewCollection[model.Product](db, "products", m)
	treatments := mongo.NewCollection[model.Treatment](db, "treatments", m)
	appointments := mongo.NewCollection[model.Appointment](db, "appointments", m)
	messages := mongo.NewCollection[model.Message](db, "messages", m)

	validator := validation.New()
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewJWTService(auth.Config{
		Secret:    cfg.JWT.Secret,
		Issuer:    cfg.JWT.Issuer,
		Audience:  cfg.JWT.Audience,
		AccessTTL: cfg.JWT.AccessTTL,
	})
	mailer := email.New(email.Config{
		Enabled:  cfg.Email.Enabled,
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	}, log)

	userService := usersvc.NewService(users, validator, hasher, cfg.Auth.DefaultPassword, log)
	doctorService := doctorsvc.NewService(doctors, validator, userService, mailer, log)
	patientService := patientsvc.NewService(patients, validator, userService, mailer, log)
	productService := productsvc.NewService(products, validator, log)
	treatmentService := treatmentsvc.NewService(treatments, validator, log)
	appointmentService := appointmentsvc.NewService(appointments, validator,
		patientService, doctorService, treatmentService, log)
	authService := authsvc.NewService(users, credentials, hasher, tokens, cfg.JWT.RefreshTTL, log)

	hub := chat.NewHub(messages, users, log)
	chatService := chat.NewService(messages, users, log)

	allowOrigin := websocketOriginCheck(cfg.CORS.AllowedOrigins)

	engine := router.New(cfg, tokens, m, router.Handlers{
		Auth:         authhandler.NewHandler(authService),
		Users:        userhandler.NewHandler(userService),
		Doctors:      doctorhandler.NewHandler(doctorService),
		Patients:     patienthandler.NewHandler(patientService),
		Products:     producthandler.NewHandler(productService),
		Treatments:   treatmenthandler.NewHandler(treatmentService),
		Appointments: appointmenthandler.NewHandler(appointmentService),
		Chat:         chathandler.NewHandler(hub, chatService, allowOrigin, log),
	}, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func websocketOriginCheck(allowed []string) func(r *http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.Header.Get("Origin")]
		return ok
	}
}
