package app

import (
	"errors"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/auth"
	"github.com/Additional-Code/geosstore/internal/cache"
	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/database"
	"github.com/Additional-Code/geosstore/internal/logger"
	"github.com/Additional-Code/geosstore/internal/messaging"
	"github.com/Additional-Code/geosstore/internal/observability"
	repositorycustomer "github.com/Additional-Code/geosstore/internal/repository/customer"
	repositorydashboard "github.com/Additional-Code/geosstore/internal/repository/dashboard"
	repositorynewsletter "github.com/Additional-Code/geosstore/internal/repository/newsletter"
	repositoryorder "github.com/Additional-Code/geosstore/internal/repository/order"
	repositoryproduct "github.com/Additional-Code/geosstore/internal/repository/product"
	repositoryreview "github.com/Additional-Code/geosstore/internal/repository/review"
	repositoryworker "github.com/Additional-Code/geosstore/internal/repository/worker"
	grpcserver "github.com/Additional-Code/geosstore/internal/server/grpc"
	httpserver "github.com/Additional-Code/geosstore/internal/server/http"
	serviceaccount "github.com/Additional-Code/geosstore/internal/service/account"
	servicecatalog "github.com/Additional-Code/geosstore/internal/service/catalog"
	servicecustomer "github.com/Additional-Code/geosstore/internal/service/customer"
	servicedashboard "github.com/Additional-Code/geosstore/internal/service/dashboard"
	servicenewsletter "github.com/Additional-Code/geosstore/internal/service/newsletter"
	serviceorder "github.com/Additional-Code/geosstore/internal/service/order"
	servicereview "github.com/Additional-Code/geosstore/internal/service/review"
	servicestaff "github.com/Additional-Code/geosstore/internal/service/staff"
	transporthttp "github.com/Additional-Code/geosstore/internal/transport/http"
	"github.com/Additional-Code/geosstore/internal/worker"
	workerorder "github.com/Additional-Code/geosstore/internal/worker/order"
)

// Repositories provides every storage adapter.
var Repositories = fx.Options(
	repositoryorder.Module,
	repositoryproduct.Module,
	repositorycustomer.Module,
	repositoryworker.Module,
	repositorynewsletter.Module,
	repositoryreview.Module,
	repositorydashboard.Module,
)

// Services provides the business services.
var Services = fx.Options(
	serviceorder.Module,
	servicecatalog.Module,
	serviceaccount.Module,
	servicecustomer.Module,
	servicestaff.Module,
	servicenewsletter.Module,
	servicereview.Module,
	servicedashboard.Module,
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	auth.Module,
	Repositories,
	Services,
)

// HTTP wires the HTTP transport and the gRPC health endpoint on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	grpcserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
	SharedBus,
)

// Standalone runs the API and the event worker in one process, which is how
// the in-memory message bus is consumed.
var Standalone = fx.Options(
	HTTP,
	worker.Module,
	workerorder.Module,
)

// EventLogger routes Fx lifecycle events through the application logger.
var EventLogger = fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: logger.Named("fx")}
})

// SharedBus stops a process that only publishes or only consumes from
// starting on the in-memory bus, which no other process can reach.
var SharedBus = fx.Invoke(CheckSharedBus)

// ErrMemoryBusSplit is returned by CheckSharedBus.
var ErrMemoryBusSplit = errors.New("MESSAGING_DRIVER=memory requires the API and worker in one process (start --with-worker)")

// CheckSharedBus rejects the in-memory bus.
func CheckSharedBus(cfg config.Config) error {
	if cfg.Messaging.Driver == "memory" {
		return ErrMemoryBusSplit
	}
	return nil
}

// Module is the default application wiring (HTTP only).
var Module = fx.Options(HTTP, SharedBus)
