package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/funerarias/internal/cache"
	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/domain/quote/pdf/gofpdf"
	"github.com/Additional-Code/funerarias/internal/functions"
	"github.com/Additional-Code/funerarias/internal/logger"
	"github.com/Additional-Code/funerarias/internal/messaging"
	"github.com/Additional-Code/funerarias/internal/observability"
	repositorycatalog "github.com/Additional-Code/funerarias/internal/repository/catalog"
	repositorycontent "github.com/Additional-Code/funerarias/internal/repository/content"
	repositorycrm "github.com/Additional-Code/funerarias/internal/repository/crm"
	repositorydashboard "github.com/Additional-Code/funerarias/internal/repository/dashboard"
	repositoryinvoice "github.com/Additional-Code/funerarias/internal/repository/invoice"
	repositoryorder "github.com/Additional-Code/funerarias/internal/repository/order"
	repositoryprovider "github.com/Additional-Code/funerarias/internal/repository/provider"
	repositoryquote "github.com/Additional-Code/funerarias/internal/repository/quote"
	grpcserver "github.com/Additional-Code/funerarias/internal/server/grpc"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	servicecatalog "github.com/Additional-Code/funerarias/internal/service/catalog"
	servicecontent "github.com/Additional-Code/funerarias/internal/service/content"
	servicecrm "github.com/Additional-Code/funerarias/internal/service/crm"
	servicedashboard "github.com/Additional-Code/funerarias/internal/service/dashboard"
	serviceinvoice "github.com/Additional-Code/funerarias/internal/service/invoice"
	servicemarketing "github.com/Additional-Code/funerarias/internal/service/marketing"
	serviceorder "github.com/Additional-Code/funerarias/internal/service/order"
	serviceprovider "github.com/Additional-Code/funerarias/internal/service/provider"
	servicequote "github.com/Additional-Code/funerarias/internal/service/quote"
	"github.com/Additional-Code/funerarias/internal/storage"
	transporthttp "github.com/Additional-Code/funerarias/internal/transport/http"
	"github.com/Additional-Code/funerarias/internal/worker"
	workercampaign "github.com/Additional-Code/funerarias/internal/worker/campaign"
	workerorder "github.com/Additional-Code/funerarias/internal/worker/order"
)

// Infra provides configuration, logging, connections and external clients.
var Infra = fx.Options(
	config.Module,
	logger.Module,
	observability.Module,
	cache.Module,
	database.Module,
	messaging.Module,
	storage.Module,
	functions.Module,
	gofpdf.Module,
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	Infra,
	repositoryprovider.Module,
	repositoryquote.Module,
	repositoryorder.Module,
	repositoryinvoice.Module,
	repositorycrm.Module,
	repositorycatalog.Module,
	repositorycontent.Module,
	repositorydashboard.Module,
	serviceprovider.Module,
	servicequote.Module,
	serviceorder.Module,
	serviceinvoice.Module,
	servicecrm.Module,
	servicecatalog.Module,
	servicecontent.Module,
	servicedashboard.Module,
	servicemarketing.Module,
)

// HTTP wires the HTTP and gRPC servers on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
	grpcserver.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
	workercampaign.Module,
)

// Module is the default application wiring (HTTP and gRPC).
var Module = HTTP
