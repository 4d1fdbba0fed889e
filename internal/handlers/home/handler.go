package home

import (
	"net/http"
	"taskapp/config"
	"taskapp/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const (
	statusRunning = "running"
	statusUp      = "UP"
)

type WelcomeResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type Handler struct {
	config *config.Config
}

func New(config *config.Config) Handler {
	return Handler{
		config: config,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/", handler.Home)
	router.Get("/health", handler.Health)
}

// Home greets the caller.
// @Summary Welcome message
// @Tags Home
// @Produce json
// @Success 200 {object} home.WelcomeResponse
// @Router /api [get]
func (handler *Handler) Home(w http.ResponseWriter, _ *http.Request) {
	response.WithJSON(w, http.StatusOK, WelcomeResponse{
		Message: "Welcome to " + handler.config.App.Name,
		Status:  statusRunning,
	})
}

// Health reports liveness. It does not probe the database.
// @Summary Health check
// @Tags Home
// @Produce json
// @Success 200 {object} home.HealthResponse
// @Router /api/health [get]
func (handler *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	response.WithJSON(w, http.StatusOK, HealthResponse{Status: statusUp})
}
