package party

import (
	"github.com/haren2312/OptimumERP/internal/party/repository"
	"github.com/haren2312/OptimumERP/internal/party/service"
	"go.uber.org/fx"
)

var Module = fx.Module("party.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
