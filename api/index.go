package handler

import (
	"net/http"
	"sync"
	"taskapp/config"
	"taskapp/di"
	"taskapp/shared/logger"
	taskHTTP "taskapp/transport/http"
)

var (
	server *taskHTTP.HTTP
	once   sync.Once
)

// Handler is the serverless entry point. The dependency graph is built on the first call and reused.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.SetLogLevel(cfg)

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
