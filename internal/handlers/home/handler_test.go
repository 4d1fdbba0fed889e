package home_test

import (
	"net/http"
	"net/http/httptest"
	"taskapp/config"
	"taskapp/internal/handlers/home"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newRouter(appName string) http.Handler {
	cfg := &config.Config{}
	cfg.App.Name = appName

	handler := home.New(cfg)

	router := chi.NewRouter()
	router.Route("/api", handler.Router)

	return router
}

func TestHome(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter("Java Web Application").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to Java Web Application","status":"running"}`, rec.Body.String())
}

func TestHome_CustomName(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter("Tasks").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to Tasks","status":"running"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter("x").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP"}`, rec.Body.String())
}
