package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/haren2312/OptimumERP/internal/billing"
	billingdomain "github.com/haren2312/OptimumERP/internal/billing/domain"
	"github.com/haren2312/OptimumERP/internal/config"
	"github.com/haren2312/OptimumERP/internal/expense"
	expensedomain "github.com/haren2312/OptimumERP/internal/expense/domain"
	"github.com/haren2312/OptimumERP/internal/observability"
	obslogger "github.com/haren2312/OptimumERP/internal/observability/logger"
	obsmetrics "github.com/haren2312/OptimumERP/internal/observability/metrics"
	"github.com/haren2312/OptimumERP/internal/organization"
	organizationdomain "github.com/haren2312/OptimumERP/internal/organization/domain"
	"github.com/haren2312/OptimumERP/internal/party"
	partydomain "github.com/haren2312/OptimumERP/internal/party/domain"
	"github.com/haren2312/OptimumERP/internal/product"
	productdomain "github.com/haren2312/OptimumERP/internal/product/domain"
	"github.com/haren2312/OptimumERP/internal/providers/email"
	"github.com/haren2312/OptimumERP/internal/providers/pdf"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	fx.Provide(registerGin),
	organization.Module,
	party.Module,
	product.Module,
	expense.Module,
	billing.Module,
	email.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, obslogger.MiddlewareConfig{
		Debug:           cfg.Environment != "production",
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, log, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	organizationSvc organizationdomain.Service
	partySvc        partydomain.Service
	productSvc      productdomain.Service
	expenseSvc      expensedomain.Service
	billingSvc      billingdomain.Service
	pdfProvider     pdf.Provider
	emailProvider   email.Provider
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	OrganizationSvc organizationdomain.Service
	PartySvc        partydomain.Service
	ProductSvc      productdomain.Service
	ExpenseSvc      expensedomain.Service
	BillingSvc      billingdomain.Service
	PDFProvider     pdf.Provider
	EmailProvider   email.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		organizationSvc: p.OrganizationSvc,
		partySvc:        p.PartySvc,
		productSvc:      p.ProductSvc,
		expenseSvc:      p.ExpenseSvc,
		billingSvc:      p.BillingSvc,
		pdfProvider:     p.PDFProvider,
		emailProvider:   p.EmailProvider,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Reference data --------
	api.GET("/tax-rates", s.ListTaxRates)
	api.GET("/units", s.ListUnits)

	// -------- Organizations --------
	api.POST("/orgs", s.UserContext(), s.CreateOrganization)

	orgs := api.Group("/orgs/:orgId", s.OrgContext(), s.UserContext())

	orgs.GET("", s.GetOrganization)
	orgs.GET("/settings", s.GetSettings)
	orgs.PUT("/settings", s.UpdateSettings)

	// -------- Parties --------
	orgs.GET("/parties", s.ListParties)
	orgs.POST("/parties", s.CreateParty)
	orgs.GET("/parties/:id", s.GetParty)
	orgs.PUT("/parties/:id", s.UpdateParty)
	orgs.DELETE("/parties/:id", s.DeleteParty)

	// -------- Products --------
	orgs.GET("/products", s.ListProducts)
	orgs.POST("/products", s.CreateProduct)
	orgs.GET("/products/:id", s.GetProduct)
	orgs.PUT("/products/:id", s.UpdateProduct)
	orgs.DELETE("/products/:id", s.DeleteProduct)
	orgs.GET("/product-categories", s.ListProductCategories)
	orgs.POST("/product-categories", s.CreateProductCategory)
	orgs.PUT("/product-categories/:id", s.UpdateProductCategory)
	orgs.DELETE("/product-categories/:id", s.DeleteProductCategory)

	// -------- Expenses --------
	orgs.GET("/expenses", s.ListExpenses)
	orgs.POST("/expenses", s.CreateExpense)
	orgs.GET("/expenses/:id", s.GetExpense)
	orgs.PUT("/expenses/:id", s.UpdateExpense)
	orgs.DELETE("/expenses/:id", s.DeleteExpense)
	orgs.GET("/expense-categories", s.ListExpenseCategories)
	orgs.POST("/expense-categories", s.CreateExpenseCategory)
	orgs.PUT("/expense-categories/:id", s.UpdateExpenseCategory)
	orgs.DELETE("/expense-categories/:id", s.DeleteExpenseCategory)

	// -------- Billing documents --------
	// Shared handlers, one mount per kind.
	s.registerDocumentRoutes(orgs, "/invoices", billingdomain.KindInvoice)
	s.registerDocumentRoutes(orgs, "/purchase-orders", billingdomain.KindPurchaseOrder)
	s.registerDocumentRoutes(orgs, "/quotes", billingdomain.KindQuote)

	// -------- Ledger & dashboard --------
	orgs.GET("/transactions", s.ListTransactions)
	orgs.GET("/dashboard", s.Dashboard)
}

func (s *Server) registerDocumentRoutes(orgs *gin.RouterGroup, path string, kind billingdomain.Kind) {
	g := orgs.Group(path)

	g.POST("", s.CreateDocument(kind))
	g.GET("", s.ListDocuments(kind))
	g.GET("/next-number", s.NextDocumentNumber(kind))
	g.GET("/:id", s.GetDocument(kind))
	g.PUT("/:id", s.UpdateDocument(kind))
	g.DELETE("/:id", s.DeleteDocument(kind))
	g.GET("/:id/pdf", s.DocumentPDF(kind))
	g.POST("/:id/send", s.SendDocument(kind))

	switch kind {
	case billingdomain.KindQuote:
		g.POST("/:id/convert", s.ConvertQuote)
	default:
		g.POST("/:id/payment", s.RecordDocumentPayment(kind))
	}
}
