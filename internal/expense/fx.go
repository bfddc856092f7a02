package expense

import (
	"github.com/haren2312/OptimumERP/internal/expense/repository"
	"github.com/haren2312/OptimumERP/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
