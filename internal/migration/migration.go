// Package migration creates the schema on startup so the service is usable
// out of the box for local and self-hosted deployments. Postgres runs the
// embedded SQL through golang-migrate; other dialects fall back to gorm's
// AutoMigrate, which covers the same tables and indexes.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	billingdomain "github.com/haren2312/OptimumERP/internal/billing/domain"
	expensedomain "github.com/haren2312/OptimumERP/internal/expense/domain"
	orgdomain "github.com/haren2312/OptimumERP/internal/organization/domain"
	partydomain "github.com/haren2312/OptimumERP/internal/party/domain"
	productdomain "github.com/haren2312/OptimumERP/internal/product/domain"
)

func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Not closing the migrator here: that would close the shared *sql.DB.

	return nil
}

func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&orgdomain.Organization{},
		&orgdomain.Setting{},
		&partydomain.Party{},
		&productdomain.Category{},
		&productdomain.Product{},
		&expensedomain.Category{},
		&expensedomain.Expense{},
		&billingdomain.BillingDocument{},
		&billingdomain.LineItem{},
		&billingdomain.Transaction{},
	)
}
