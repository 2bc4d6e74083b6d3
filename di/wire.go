//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"todoevo/config"
	"todoevo/infras/otel"
	taskHandler "todoevo/internal/handlers/task"
	"todoevo/transport/http"
	"todoevo/transport/http/middleware"
	"todoevo/transport/http/router"

	taskService "todoevo/internal/domains/task/service"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	ProvideDB,
	otel.New,
)

var middlewares = wire.NewSet(
	middleware.NewApp,
	middleware.NewOwner,
)

var taskDomain = wire.NewSet(
	ProvideTaskRepository,
	taskService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	taskHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		taskDomain,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
