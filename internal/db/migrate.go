package db

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/agropure/agropure-api/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectAndMigrate opens the Postgres database (with retries, since the
// container may come up after us), runs schema migrations, and optionally
// seeds reference data when DB_SEED is set.
func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty, check environment configuration")
	}
	var db *gorm.DB
	var err error
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		fmt.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)

	// MIGRATIONS=1 runs SQL migrations via golang-migrate; otherwise AutoMigrate
	// keeps the schema in sync (dev convenience).
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	for _, table := range []string{"users", "products", "quotes"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

// AutoMigrate migrates every model. Shared with the sqlite test harness.
func AutoMigrate(db *gorm.DB) error {
	toMigrate := []interface{}{
		&models.User{}, &models.Supplier{}, &models.Material{},
		&models.Product{}, &models.ProductMaterial{}, &models.ProductFAQ{},
		&models.Quote{}, &models.Review{}, &models.Purchase{}, &models.Sale{},
	}
	for _, m := range toMigrate {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func seed(db *gorm.DB) {
	// Bootstrap admin account
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@agropure.local"
	}
	var existing models.User
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == gorm.ErrRecordNotFound {
		pass := os.Getenv("ADMIN_PASSWORD")
		if pass == "" {
			pass = "changeme"
		}
		hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
		db.Create(&models.User{
			FirstName: "Admin", LastName: "AGROPURE",
			Email: adminEmail, Password: string(hash),
			Role: models.RoleAdmin, IsActive: true,
		})
	}
	// Starter suppliers/materials so the purchasing screens aren't empty
	baseSuppliers := []models.Supplier{
		{Name: "HidroComponentes SA", ContactName: "M. Rios", Email: "ventas@hidrocomponentes.mx", IsActive: true},
		{Name: "FiltroMax", ContactName: "L. Ortega", Email: "contacto@filtromax.mx", IsActive: true},
	}
	for _, s := range baseSuppliers {
		var found models.Supplier
		if err := db.Where("name = ?", s.Name).First(&found).Error; err == gorm.ErrRecordNotFound {
			db.Create(&s)
		}
	}
	baseMaterials := []models.Material{
		{Name: "Membrana de ósmosis inversa", UnitCost: 850, Unit: "piece", SupplierID: 1, IsActive: true},
		{Name: "Carbón activado", UnitCost: 120, Unit: "kg", SupplierID: 2, IsActive: true},
		{Name: "Resina suavizadora", UnitCost: 95, Unit: "kg", SupplierID: 2, IsActive: true},
	}
	for _, m := range baseMaterials {
		var found models.Material
		if err := db.Where("name = ?", m.Name).First(&found).Error; err == gorm.ErrRecordNotFound {
			db.Create(&m)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
