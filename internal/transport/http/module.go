package http

import (
	"go.uber.org/fx"

	catalogtransport "github.com/Additional-Code/funerarias/internal/transport/http/catalog"
	contenttransport "github.com/Additional-Code/funerarias/internal/transport/http/content"
	crmtransport "github.com/Additional-Code/funerarias/internal/transport/http/crm"
	dashboardtransport "github.com/Additional-Code/funerarias/internal/transport/http/dashboard"
	invoicetransport "github.com/Additional-Code/funerarias/internal/transport/http/invoice"
	marketingtransport "github.com/Additional-Code/funerarias/internal/transport/http/marketing"
	ordertransport "github.com/Additional-Code/funerarias/internal/transport/http/order"
	providertransport "github.com/Additional-Code/funerarias/internal/transport/http/provider"
	quotetransport "github.com/Additional-Code/funerarias/internal/transport/http/quote"
	ruttransport "github.com/Additional-Code/funerarias/internal/transport/http/rut"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	providertransport.Module,
	quotetransport.Module,
	ordertransport.Module,
	invoicetransport.Module,
	crmtransport.Module,
	catalogtransport.Module,
	contenttransport.Module,
	dashboardtransport.Module,
	marketingtransport.Module,
	ruttransport.Module,
)
