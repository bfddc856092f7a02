package product

import (
	"github.com/haren2312/OptimumERP/internal/product/repository"
	"github.com/haren2312/OptimumERP/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
