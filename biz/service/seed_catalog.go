package service

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"github.com/vega-tools/catalog/biz/dal/db"
	"github.com/vega-tools/catalog/biz/dal/model"
)

type seedCategory struct {
	name     string
	position int
	children []string
}

type seedProduct struct {
	name            string
	sku             string
	brand           string
	category        string
	price           float64
	discountedPrice float64
	description     string
	specifications  string
}

var seedCategories = []seedCategory{
	{name: "PPE Safety Equipment", position: 1, children: []string{"Safety Helmets", "Safety Shoes", "Safety Gloves"}},
	{name: "Cordless Tools", position: 2, children: []string{"Cordless Drills", "Cordless Impact Drivers"}},
	{name: "Construction Tools", position: 3, children: []string{"Rotary Hammers", "Demolition Hammers"}},
	{name: "Measuring Tools", position: 4, children: []string{"Laser Distance Meters", "Measuring Tapes"}},
}

var seedProducts = []seedProduct{
	{
		name: "Safety Helmet S-RH-G White", sku: "SH-WHITE-01", brand: "Generic", category: "Safety Helmets",
		price: 399, discountedPrice: 210,
		description:    "HDPE safety helmet with adjustable ratchet suspension. Size 540-590mm.",
		specifications: `{"color":"White","material":"HDPE","size":"540-590mm"}`,
	},
	{
		name: "Safety Helmet S-RH-G Yellow", sku: "SH-YELLOW-01", brand: "Generic", category: "Safety Helmets",
		price: 399, discountedPrice: 210,
		description:    "HDPE safety helmet with adjustable ratchet suspension. Size 540-590mm.",
		specifications: `{"color":"Yellow","material":"HDPE","size":"540-590mm"}`,
	},
	{
		name: "ALKO PLUS Safety Shoe APS K3", sku: "SS-ALKO-K3", brand: "ALKO PLUS", category: "Safety Shoes",
		price: 1299, discountedPrice: 899,
		description:    "Steel toe safety shoe, black-grey. Sizes 8, 9, 10.",
		specifications: `{"color":"Black-Grey","toe_cap":"Steel","sizes":"8,9,10"}`,
	},
	{
		name: "Hillson WeFly Safety Shoe WF01", sku: "SS-HILLSON-WF01", brand: "Hillson", category: "Safety Shoes",
		price: 1599, discountedPrice: 1199,
		description:    "Lightweight safety shoe with steel toe.",
		specifications: `{"color":"Black","toe_cap":"Steel","sizes":"8,9"}`,
	},
	{
		name: "Cordless Drill CD-12V", sku: "CT-DRILL-12V", brand: "Generic", category: "Cordless Drills",
		price: 3499, discountedPrice: 2799,
		description:    "12V cordless drill with two-speed gearbox and keyless chuck.",
		specifications: `{"voltage":"12V","chuck":"10mm keyless","torque_settings":18}`,
	},
	{
		name: "Cordless Impact Driver ID-20V", sku: "CT-IMPACT-20V", brand: "Generic", category: "Cordless Impact Drivers",
		price: 5299,
		description:    "20V brushless impact driver, 180Nm max torque.",
		specifications: `{"voltage":"20V","torque":"180Nm","motor":"brushless"}`,
	},
	{
		name: "Rotary Hammer RH-26", sku: "CN-ROTARY-26", brand: "Generic", category: "Rotary Hammers",
		price: 6999, discountedPrice: 5499,
		description:    "26mm SDS-plus rotary hammer with drill, hammer drill and chisel modes.",
		specifications: `{"chuck":"SDS-plus","max_drill":"26mm","modes":3}`,
	},
	{
		name: "Laser Distance Meter LDM-50", sku: "MT-LASER-50", brand: "Generic", category: "Laser Distance Meters",
		price: 2199, discountedPrice: 1699,
		description:    "50m laser distance meter with area and volume measurement.",
		specifications: `{"range":"50m","accuracy":"±2mm"}`,
	},
	{
		name: "Measuring Tape MT-5M", sku: "MT-TAPE-5M", brand: "Generic", category: "Measuring Tapes",
		price: 149,
		description:    "5m steel measuring tape with belt clip.",
		specifications: `{"length":"5m","blade":"steel"}`,
	},
}

// SeedCatalog creates the sample categories and products on an empty
// database. A database that already holds any product or category is left
// untouched, so edits and deletions survive restarts.
func (s *Service) SeedCatalog(ctx context.Context) error {
	categories, err := s.logic.ListCategories(ctx, false)
	if err != nil {
		return err
	}
	_, productTotal, err := s.logic.ListProducts(ctx, db.ProductFilter{PerPage: 1})
	if err != nil {
		return err
	}
	if len(categories) > 0 || productTotal > 0 {
		return nil
	}

	categoryIDs := make(map[string]uint)
	for _, sc := range seedCategories {
		root := model.Category{Name: sc.name, Position: sc.position, Active: true}
		if err := s.logic.AddCategory(ctx, &root); err != nil {
			return err
		}
		categoryIDs[root.Name] = root.ID
		for i, childName := range sc.children {
			parentID := root.ID
			child := model.Category{Name: childName, ParentID: &parentID, Position: i + 1, Active: true}
			if err := s.logic.AddCategory(ctx, &child); err != nil {
				return err
			}
			categoryIDs[child.Name] = child.ID
		}
	}

	for _, sp := range seedProducts {
		p := model.Product{
			Name:           sp.name,
			SKU:            sp.sku,
			Brand:          sp.brand,
			Price:          sp.price,
			Description:    sp.description,
			Specifications: json.RawMessage(sp.specifications),
			Published:      true,
		}
		if sp.discountedPrice > 0 {
			discounted := sp.discountedPrice
			p.DiscountedPrice = &discounted
		}
		if id, ok := categoryIDs[sp.category]; ok {
			categoryID := id
			p.CategoryID = &categoryID
		}
		if err := s.logic.AddProduct(ctx, &p); err != nil {
			return err
		}
	}

	hlog.Infof("seeded %d categories and %d products", len(categoryIDs), len(seedProducts))
	return nil
}
