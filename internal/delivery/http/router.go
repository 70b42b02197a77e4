package http

import (
	"net/http"
	"time"

	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Router struct {
	router             *mux.Router
	log                *logrus.Logger
	requestTimeout     time.Duration
	authHandler        *handler.AuthHandler
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	adminHandler       *handler.AdminHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	log *logrus.Logger,
	requestTimeout time.Duration,
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		log:                log,
		requestTimeout:     requestTimeout,
		authHandler:        authHandler,
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		adminHandler:       adminHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Catalog browsing (public)
	api.HandleFunc("/time-slots", r.doctorHandler.ListTimeSlots).Methods(http.MethodGet)
	api.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id:[0-9]+}/working-hours", r.doctorHandler.GetWorkingHours).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id:[0-9]+}/available-slots", r.doctorHandler.GetAvailableSlots).Methods(http.MethodGet)

	// Authenticated routes; ownership is checked by the usecases
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.Handle("/doctors/{id:[0-9]+}/working-hours",
		middleware.RequireStaffOrDoctor(http.HandlerFunc(r.doctorHandler.ReplaceWorkingHours))).Methods(http.MethodPut)
	protected.Handle("/doctors/{id:[0-9]+}/appointments",
		middleware.RequireStaffOrDoctor(http.HandlerFunc(r.appointmentHandler.ListByDoctor))).Methods(http.MethodGet)
	protected.Handle("/patients/{id:[0-9]+}/appointments",
		middleware.RequireStaffOrPatient(http.HandlerFunc(r.appointmentHandler.ListByPatient))).Methods(http.MethodGet)

	protected.Handle("/appointments",
		middleware.RequireStaffOrPatient(http.HandlerFunc(r.appointmentHandler.CreateAppointment))).Methods(http.MethodPost)
	protected.Handle("/appointments",
		middleware.RequireStaff(http.HandlerFunc(r.appointmentHandler.ListAll))).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/me", r.appointmentHandler.ListMine).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id:[0-9]+}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)
	protected.Handle("/appointments/{id:[0-9]+}/complete",
		middleware.RequireStaffOrDoctor(http.HandlerFunc(r.appointmentHandler.CompleteAppointment))).Methods(http.MethodPost)

	// Clinic management (admin and secretary)
	protected.Handle("/admin/doctors",
		middleware.RequireStaff(http.HandlerFunc(r.doctorHandler.CreateDoctor))).Methods(http.MethodPost)
	protected.Handle("/admin/doctors/{id:[0-9]+}",
		middleware.RequireStaff(http.HandlerFunc(r.doctorHandler.DeactivateDoctor))).Methods(http.MethodDelete)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/users", r.adminHandler.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", r.adminHandler.DeactivateUser).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", r.adminHandler.ListAuditLogs).Methods(http.MethodGet)

	r.router.Use(middleware.RequestLogger(r.log))
	r.router.Use(middleware.Timeout(r.requestTimeout))
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
