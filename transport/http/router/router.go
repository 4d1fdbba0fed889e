package router

import (
	"taskapp/internal/handlers/home"
	"taskapp/internal/handlers/task"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Home home.Handler
	Task task.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/api", func(routerGroup chi.Router) {
		r.DomainHandlers.Home.Router(routerGroup)
		r.DomainHandlers.Task.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
