package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vega-tools/catalog/biz/dal/model"
)

const generalDefaults = `category: general
settings:
  - key: site_name
    public: true
    description: Display name of the store
    value: Vega Tools
  - key: items_per_page
    public: true
    value: 25
`

const sectionsDefaults = `category: sections
settings:
  - key: homepage_sections
    public: true
    value:
      featured: true
      on_sale: true
      brands: false
`

func writeDefaults(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"general.yml":  generalDefaults,
		"sections.yml": sectionsDefaults,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write defaults file: %v", err)
		}
	}
	return dir
}

func TestService_SeedSettings(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if err := s.LoadSettingDefaults(writeDefaults(t)); err != nil {
		t.Fatalf("LoadSettingDefaults() error = %v", err)
	}
	if err := s.SeedSettings(ctx); err != nil {
		t.Fatalf("SeedSettings() error = %v", err)
	}

	setting, err := s.GetSetting(ctx, "site_name")
	if err != nil {
		t.Fatalf("GetSetting() error = %v", err)
	}
	if setting.Value != `"Vega Tools"` {
		t.Errorf("value = %s, want %q", setting.Value, `"Vega Tools"`)
	}
	if !setting.IsSystem || !setting.IsPublic {
		t.Errorf("seeded setting flags = system:%v public:%v, want both true", setting.IsSystem, setting.IsPublic)
	}
	if setting.Category != model.SettingCategoryGeneral {
		t.Errorf("category = %q, want general", setting.Category)
	}

	sections, err := s.GetSetting(ctx, "homepage_sections")
	if err != nil {
		t.Fatalf("GetSetting(homepage_sections) error = %v", err)
	}
	var parsed map[string]bool
	if err := json.Unmarshal([]byte(sections.Value), &parsed); err != nil {
		t.Fatalf("seeded value is not JSON: %v", err)
	}
	if !parsed["featured"] || parsed["brands"] {
		t.Errorf("homepage_sections = %v", parsed)
	}
}

func TestService_SeedSettingsKeepsEdits(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if err := s.LoadSettingDefaults(writeDefaults(t)); err != nil {
		t.Fatalf("LoadSettingDefaults() error = %v", err)
	}
	if err := s.SeedSettings(ctx); err != nil {
		t.Fatalf("SeedSettings() error = %v", err)
	}

	if _, err := s.UpdateSetting(ctx, "site_name", `"Custom Name"`, nil); err != nil {
		t.Fatalf("UpdateSetting() error = %v", err)
	}
	if err := s.SeedSettings(ctx); err != nil {
		t.Fatalf("second SeedSettings() error = %v", err)
	}

	setting, err := s.GetSetting(ctx, "site_name")
	if err != nil {
		t.Fatalf("GetSetting() error = %v", err)
	}
	if setting.Value != `"Custom Name"` {
		t.Errorf("value = %s, reseeding overwrote an edit", setting.Value)
	}
}

func TestService_ResetSetting(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if err := s.LoadSettingDefaults(writeDefaults(t)); err != nil {
		t.Fatalf("LoadSettingDefaults() error = %v", err)
	}
	if err := s.SeedSettings(ctx); err != nil {
		t.Fatalf("SeedSettings() error = %v", err)
	}
	if _, err := s.UpdateSetting(ctx, "site_name", `"Custom Name"`, nil); err != nil {
		t.Fatalf("UpdateSetting() error = %v", err)
	}

	if err := s.ResetSetting(ctx, "site_name"); err != nil {
		t.Fatalf("ResetSetting() error = %v", err)
	}
	setting, _ := s.GetSetting(ctx, "site_name")
	if setting.Value != `"Vega Tools"` {
		t.Errorf("value after reset = %s, want the seeded default", setting.Value)
	}

	if err := s.ResetSetting(ctx, "never_seeded"); !errors.Is(err, ErrSettingNotSystem) {
		t.Errorf("ResetSetting(unseeded) error = %v, want ErrSettingNotSystem", err)
	}
}

func TestService_UpdateSettingRejectsBadJSON(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if err := s.CreateSetting(ctx, &model.SiteSetting{
		Key:      "contact_email",
		Category: model.SettingCategoryContact,
		Value:    `"sales@example.com"`,
		IsPublic: true,
	}); err != nil {
		t.Fatalf("CreateSetting() error = %v", err)
	}

	if _, err := s.UpdateSetting(ctx, "contact_email", `{broken`, nil); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("error = %v, want ErrInvalidJSON", err)
	}
}

func TestService_PublicConfig(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if err := s.CreateSetting(ctx, &model.SiteSetting{
		Key: "site_name", Category: model.SettingCategoryGeneral, Value: `"Vega Tools"`, IsPublic: true,
	}); err != nil {
		t.Fatalf("CreateSetting() error = %v", err)
	}
	if err := s.CreateSetting(ctx, &model.SiteSetting{
		Key: "smtp_password", Category: model.SettingCategoryFeatures, Value: `"secret"`,
	}); err != nil {
		t.Fatalf("CreateSetting() error = %v", err)
	}

	cfg, err := s.PublicConfig(ctx)
	if err != nil {
		t.Fatalf("PublicConfig() error = %v", err)
	}
	if _, ok := cfg["site_name"]; !ok {
		t.Error("public setting missing from config")
	}
	if _, ok := cfg["smtp_password"]; ok {
		t.Error("private setting leaked into public config")
	}
}

func TestService_SettingValueDefaultFallback(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if err := s.LoadSettingDefaults(writeDefaults(t)); err != nil {
		t.Fatalf("LoadSettingDefaults() error = %v", err)
	}

	// Defaults are loaded but nothing is seeded yet, so the value comes
	// from the YAML file.
	value, err := s.SettingValue(ctx, "site_name")
	if err != nil {
		t.Fatalf("SettingValue() error = %v", err)
	}
	if string(value) != `"Vega Tools"` {
		t.Errorf("value = %s, want %q", value, `"Vega Tools"`)
	}

	if _, err := s.SettingValue(ctx, "no_such_key"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("SettingValue(no_such_key) error = %v, want ErrSettingNotFound", err)
	}
}
