package observability

import (
	"github.com/haren2312/OptimumERP/internal/logger"
	"github.com/haren2312/OptimumERP/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	logger.Module,
	fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
	fx.Provide(metrics.NewHTTPMetrics),
	fx.Provide(metrics.NewDocumentMetrics),
)
