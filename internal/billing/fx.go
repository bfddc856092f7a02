package billing

import (
	"github.com/haren2312/OptimumERP/internal/billing/repository"
	"github.com/haren2312/OptimumERP/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
