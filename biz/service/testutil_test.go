package service

import (
	"testing"

	"gorm.io/gorm"

	"github.com/vega-tools/catalog/biz/dal/db"
	"github.com/vega-tools/catalog/biz/media"
	"github.com/vega-tools/catalog/pkg/storage/local"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	conn := db.SetupTestDB(t)
	store, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("create local storage: %v", err)
	}

	variants := []media.VariantSpec{
		{Name: "original", MaxWidth: 1200, MaxHeight: 1200, Quality: 85},
		{Name: "thumbnail", MaxWidth: 300, MaxHeight: 300, Quality: 80},
		{Name: "micro", MaxWidth: 50, MaxHeight: 50, Quality: 70},
	}
	keys := media.NewKeyScheme("catalog/images", "http://localhost:8080")
	manager := media.NewManager(store, NewCountStore(conn), keys, variants)

	return NewService(conn, store, manager, nil, nil), conn
}
