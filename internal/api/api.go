// Package api serves the operator HTTP API: ledger stats, the player and
// session tables, and a manual disbursement trigger. Auth is a locally
// configured password exchanged for a short-lived JWT.
package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/kiprotich-dev/bahatibot/internal/config"
	"github.com/kiprotich-dev/bahatibot/internal/game"
)

type API struct {
	router        *mux.Router
	engine        *game.Engine
	config        *config.Config
	jwtSecret     []byte
	adminPassword string
}

func New(cfg *config.Config, engine *game.Engine) *API {
	api := &API{
		router:        mux.NewRouter(),
		engine:        engine,
		config:        cfg,
		jwtSecret:     []byte(cfg.JWTSecret),
		adminPassword: cfg.AdminPassword,
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	// Auth endpoints
	a.router.HandleFunc("/api/auth/login", a.handleLogin).Methods("POST")

	// Protected endpoints
	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("/stats", a.handleStats).Methods("GET")
	protected.HandleFunc("/players", a.handlePlayers).Methods("GET")
	protected.HandleFunc("/sessions", a.handleSessions).Methods("GET")
	protected.HandleFunc("/disburse", a.handleDisburse).Methods("POST")
}

func (a *API) Start() error {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}

	handler := cors.New(corsOptions).Handler(a.router)

	log.Printf("API server listening on http://%s", a.config.WebBind)
	return http.ListenAndServe(a.config.WebBind, handler)
}
