package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vega-tools/catalog/biz/dal/db"
	"github.com/vega-tools/catalog/biz/dal/model"
)

func createCategory(t *testing.T, s *Service, name string, parentID *uint) *CategoryView {
	t.Helper()
	view, err := s.CreateCategory(context.Background(), &model.Category{
		Name:     name,
		ParentID: parentID,
		Active:   true,
	})
	if err != nil {
		t.Fatalf("CreateCategory(%s) error = %v", name, err)
	}
	return view
}

func TestService_CategoryTree(t *testing.T) {
	s, _ := newTestService(t)

	tools := createCategory(t, s, "Tools", nil)
	drills := createCategory(t, s, "Drills", &tools.ID)
	createCategory(t, s, "Cordless Drills", &drills.ID)
	createCategory(t, s, "Garden", nil)

	tree, err := s.CategoryTree(context.Background(), true)
	if err != nil {
		t.Fatalf("CategoryTree() error = %v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("len(roots) = %d, want 2", len(tree))
	}

	var toolsNode *CategoryNode
	for i := range tree {
		if tree[i].Slug == "tools" {
			toolsNode = &tree[i]
		}
	}
	if toolsNode == nil {
		t.Fatal("tools root missing from tree")
	}
	if len(toolsNode.Children) != 1 || toolsNode.Children[0].Slug != "drills" {
		t.Fatalf("tools children = %+v, want one drills child", toolsNode.Children)
	}
	if len(toolsNode.Children[0].Children) != 1 {
		t.Errorf("drills should have one child, got %d", len(toolsNode.Children[0].Children))
	}
}

func TestService_CategoryFullPath(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	tools := createCategory(t, s, "Tools", nil)
	drills := createCategory(t, s, "Drills", &tools.ID)
	cordless := createCategory(t, s, "Cordless", &drills.ID)

	view, err := s.GetCategoryBySlug(ctx, cordless.Slug)
	if err != nil {
		t.Fatalf("GetCategoryBySlug() error = %v", err)
	}
	want := "Tools > Drills > Cordless"
	if view.FullPath != want {
		t.Errorf("FullPath = %q, want %q", view.FullPath, want)
	}
}

func TestService_CategoryProductsIncludesDescendants(t *testing.T) {
	s, conn := newTestService(t)
	ctx := context.Background()

	tools := createCategory(t, s, "Tools", nil)
	drills := createCategory(t, s, "Drills", &tools.ID)

	dao := db.NewProductDAO()
	root := &model.Product{Name: "Toolbox", SKU: "TB-1", Slug: "toolbox", Price: 30, Published: true, CategoryID: &tools.ID}
	leaf := &model.Product{Name: "Drill", SKU: "DR-1", Slug: "drill", Price: 90, Published: true, CategoryID: &drills.ID}
	for _, p := range []*model.Product{root, leaf} {
		if err := dao.Create(ctx, conn, p); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}

	direct, _, err := s.CategoryProducts(ctx, "tools", false, db.ProductFilter{PublishedOnly: true})
	if err != nil {
		t.Fatalf("CategoryProducts() error = %v", err)
	}
	if len(direct) != 1 || direct[0].SKU != "TB-1" {
		t.Fatalf("direct products = %d, want only the toolbox", len(direct))
	}

	all, _, err := s.CategoryProducts(ctx, "tools", true, db.ProductFilter{PublishedOnly: true})
	if err != nil {
		t.Fatalf("CategoryProducts(descendants) error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("subtree products = %d, want 2", len(all))
	}
}

func TestService_DeleteCategoryWithChildren(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	tools := createCategory(t, s, "Tools", nil)
	createCategory(t, s, "Drills", &tools.ID)

	err := s.DeleteCategoryWithImages(ctx, "tools")
	if !errors.Is(err, ErrCategoryHasChildren) {
		t.Errorf("error = %v, want ErrCategoryHasChildren", err)
	}
}
