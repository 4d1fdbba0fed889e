//go:build wireinject
// +build wireinject

package di

import (
	"taskapp/config"
	"taskapp/infras/kafka"
	"taskapp/infras/otel"
	"taskapp/infras/postgres"
	"taskapp/infras/redis"
	homeHandler "taskapp/internal/handlers/home"
	taskHandler "taskapp/internal/handlers/task"
	"taskapp/shared/cache"
	"taskapp/shared/transaction"
	"taskapp/transport/http"
	"taskapp/transport/http/middleware"
	"taskapp/transport/http/router"

	taskRepository "taskapp/internal/domains/task/repository"
	taskService "taskapp/internal/domains/task/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCounter,
	transaction.New,
)

var taskDomain = wire.NewSet(
	taskRepository.New,
	taskService.New,
)

var domains = wire.NewSet(
	taskDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	homeHandler.New,
	taskHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
