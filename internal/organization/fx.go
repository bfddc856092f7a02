package organization

import (
	"github.com/haren2312/OptimumERP/internal/organization/repository"
	"github.com/haren2312/OptimumERP/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
