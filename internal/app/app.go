package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/tableside/internal/auth"
	"github.com/Additional-Code/tableside/internal/cache"
	"github.com/Additional-Code/tableside/internal/clock"
	"github.com/Additional-Code/tableside/internal/config"
	"github.com/Additional-Code/tableside/internal/database"
	"github.com/Additional-Code/tableside/internal/logger"
	"github.com/Additional-Code/tableside/internal/messaging"
	"github.com/Additional-Code/tableside/internal/observability"
	repositorymenu "github.com/Additional-Code/tableside/internal/repository/menu"
	repositoryorder "github.com/Additional-Code/tableside/internal/repository/order"
	repositoryorderevent "github.com/Additional-Code/tableside/internal/repository/orderevent"
	repositorytable "github.com/Additional-Code/tableside/internal/repository/table"
	repositoryuser "github.com/Additional-Code/tableside/internal/repository/user"
	grpcserver "github.com/Additional-Code/tableside/internal/server/grpc"
	httpserver "github.com/Additional-Code/tableside/internal/server/http"
	serviceorder "github.com/Additional-Code/tableside/internal/service/order"
	transporthttp "github.com/Additional-Code/tableside/internal/transport/http"
	"github.com/Additional-Code/tableside/internal/worker"
	workerorder "github.com/Additional-Code/tableside/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	clock.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	repositorymenu.Module,
	repositoryorder.Module,
	repositoryorderevent.Module,
	repositorytable.Module,
	repositoryuser.Module,
	serviceorder.Module,
)

// HTTP wires the HTTP and gRPC servers on top of the core modules.
var HTTP = fx.Options(
	Core,
	auth.Module,
	httpserver.Module,
	grpcserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring.
var Module = HTTP
