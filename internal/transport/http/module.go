package http

import (
	"go.uber.org/fx"

	accounttransport "github.com/Additional-Code/geosstore/internal/transport/http/account"
	customertransport "github.com/Additional-Code/geosstore/internal/transport/http/customer"
	dashboardtransport "github.com/Additional-Code/geosstore/internal/transport/http/dashboard"
	newslettertransport "github.com/Additional-Code/geosstore/internal/transport/http/newsletter"
	ordertransport "github.com/Additional-Code/geosstore/internal/transport/http/order"
	producttransport "github.com/Additional-Code/geosstore/internal/transport/http/product"
	reviewtransport "github.com/Additional-Code/geosstore/internal/transport/http/review"
	stafftransport "github.com/Additional-Code/geosstore/internal/transport/http/staff"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	producttransport.Module,
	accounttransport.Module,
	customertransport.Module,
	stafftransport.Module,
	newslettertransport.Module,
	reviewtransport.Module,
	dashboardtransport.Module,
)
