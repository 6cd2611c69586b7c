package db

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/vega-tools/catalog/biz/dal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Reduce log noise in tests
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Auto migrate all tables
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.SiteSetting{},
		&model.Attachment{},
	); err != nil {
		t.Fatalf("Failed to migrate tables: %v", err)
	}

	return db
}

// CleanupTestDB closes the database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close DB: %v", err)
	}
}

// CreateTestCategory creates a category with default values
func CreateTestCategory(t *testing.T, db *gorm.DB, slug string, parentID *uint) *model.Category {
	t.Helper()
	dao := NewCategoryDAO()
	entity := &model.Category{
		Name:     "Test " + slug,
		Slug:     slug,
		ParentID: parentID,
		Active:   true,
	}
	if err := dao.Create(context.Background(), db, entity); err != nil {
		t.Fatalf("Failed to create test category %s: %v", slug, err)
	}
	return entity
}

// CreateTestProduct creates a published product with default values
func CreateTestProduct(t *testing.T, db *gorm.DB, slug string, categoryID *uint) *model.Product {
	t.Helper()
	dao := NewProductDAO()
	entity := &model.Product{
		Name:       "Test " + slug,
		Slug:       slug,
		SKU:        "SKU-" + slug,
		Price:      100,
		Published:  true,
		CategoryID: categoryID,
	}
	if err := dao.Create(context.Background(), db, entity); err != nil {
		t.Fatalf("Failed to create test product %s: %v", slug, err)
	}
	return entity
}
