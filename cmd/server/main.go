package main

import (
	"fmt"
	"net/http"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/storage"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.NewConfig()
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := bootstrapAdmin(db, cfg); err != nil {
		logger.Fatalf("Failed to bootstrap admin user: %v", err)
	}

	h := handlers.NewHandlers(db, cfg.TemplateDir, cfg.SecureCookie, logger)
	router := setupRouter(h, cfg.StaticDir)

	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}

// setupRouter wires all routes. Split out so tests can exercise the routing
// table without starting a server.
func setupRouter(h *handlers.Handlers, staticDir string) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/", h.Root).Methods("GET")
	r.HandleFunc("/login", h.LoginForm).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/signup", h.SignupForm).Methods("GET")
	r.HandleFunc("/signup", h.Signup).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	// Protected routes
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(h.AuthMiddleware)
	protected.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	protected.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	protected.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	protected.HandleFunc("/loans", h.ListLoans).Methods("GET")
	protected.HandleFunc("/loans", h.LoansAction).Methods("POST")

	return r
}

// bootstrapAdmin creates the configured admin user on first start so a fresh
// deployment is usable before anyone signs up.
func bootstrapAdmin(db *storage.DB, cfg *config.Config) error {
	if cfg.AdminUser == "" || cfg.AdminPassword == "" {
		return nil
	}
	if _, err := db.GetUserByUsername(cfg.AdminUser); err == nil {
		return nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	_, err = db.CreateUser(cfg.AdminUser, hash)
	return err
}
