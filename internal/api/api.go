package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/ekzore/tibia-agent/internal/agent"
	"github.com/ekzore/tibia-agent/internal/config"
	"github.com/ekzore/tibia-agent/internal/db"
	"github.com/ekzore/tibia-agent/internal/houses"
	"github.com/ekzore/tibia-agent/internal/split"
)

type API struct {
	router   *mux.Router
	config   *config.Config
	agent    *agent.Agent // nil when no OpenAI key is configured
	splitter *split.Tool
	houses   *houses.Client
	db       *db.DB // nil when split history is disabled
}

func New(cfg *config.Config, ag *agent.Agent, splitter *split.Tool, housesClient *houses.Client, database *db.DB) *API {
	api := &API{
		router:   mux.NewRouter(),
		config:   cfg,
		agent:    ag,
		splitter: splitter,
		houses:   housesClient,
		db:       database,
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	a.router.HandleFunc("/api/ask", a.handleAsk).Methods("POST")
	a.router.HandleFunc("/api/split", a.handleSplit).Methods("POST")
	a.router.HandleFunc("/api/splits", a.handleListSplits).Methods("GET")
	a.router.HandleFunc("/api/houses/{world}/{town}", a.handleHouses).Methods("GET")
	a.router.HandleFunc("/health", a.handleHealth).Methods("GET")

	// Web interface
	a.router.HandleFunc("/", a.handleWebInterface).Methods("GET")
}

func (a *API) Start() error {
	// Setup CORS - allow all origins for development, restrict in production
	// Note: When AllowedOrigins is "*", AllowCredentials must be false for security
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	}

	handler := cors.New(corsOptions).Handler(a.router)

	log.Printf("API server listening on http://%s", a.config.WebBind)
	return http.ListenAndServe(a.config.WebBind, handler)
}
