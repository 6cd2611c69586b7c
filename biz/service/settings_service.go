package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/vega-tools/catalog/biz/dal/model"
)

// Setting keys the storefront reads directly.
const (
	SettingKeyFeaturedProducts   = "featured_products"
	SettingKeyFeaturedCategories = "featured_categories"
	SettingKeySiteName           = "site_name"
	SettingKeySiteTagline        = "site_tagline"
)

// --------------------- Site setting operations ---------------------

func (s *Service) CreateSetting(ctx context.Context, setting *model.SiteSetting) error {
	return s.logic.AddSetting(ctx, setting)
}

func (s *Service) GetSetting(ctx context.Context, key string) (*model.SiteSetting, error) {
	return s.logic.GetSetting(ctx, key)
}

func (s *Service) ListSettings(ctx context.Context, publicOnly bool, category string) ([]model.SiteSetting, error) {
	return s.logic.ListSettings(ctx, publicOnly, category)
}

func (s *Service) UpdateSetting(ctx context.Context, key, value string, updatedByID *uint) (*model.SiteSetting, error) {
	if err := s.logic.UpdateSetting(ctx, key, value, updatedByID); err != nil {
		return nil, err
	}
	return s.logic.GetSetting(ctx, key)
}

func (s *Service) DeleteSetting(ctx context.Context, key string) error {
	setting, err := s.logic.GetSetting(ctx, key)
	if err != nil {
		return err
	}
	if setting.ImageCount > 0 {
		if err := s.DeleteAllImages(ctx, OwnerKindSetting, key); err != nil {
			return err
		}
	}
	return s.logic.DeleteSetting(ctx, key)
}

// SettingValue returns the stored JSON value for key, falling back to the
// loaded YAML default when no row exists yet.
func (s *Service) SettingValue(ctx context.Context, key string) (json.RawMessage, error) {
	raw, err := s.logic.SettingValue(ctx, key)
	if errors.Is(err, ErrSettingNotFound) {
		if def, ok := s.settingDefaults[key]; ok {
			return json.RawMessage(def.Value), nil
		}
	}
	return raw, err
}

// settingIDList parses a setting whose value is a JSON array of row ids.
// A missing setting, or a value of another shape, means nothing is pinned.
func (s *Service) settingIDList(ctx context.Context, key string) ([]uint, error) {
	raw, err := s.SettingValue(ctx, key)
	if errors.Is(err, ErrSettingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []uint
	if json.Unmarshal(raw, &ids) != nil {
		return nil, nil
	}
	return ids, nil
}

// settingString reads a setting holding a JSON string, empty when absent.
func (s *Service) settingString(ctx context.Context, key string) string {
	raw, err := s.SettingValue(ctx, key)
	if err != nil {
		return ""
	}
	var v string
	if json.Unmarshal(raw, &v) != nil {
		return ""
	}
	return v
}

// PublicConfig aggregates the public settings into the storefront bootstrap
// document.
func (s *Service) PublicConfig(ctx context.Context) (map[string]json.RawMessage, error) {
	return s.logic.PublicConfig(ctx)
}

// HomepagePayload bundles everything the storefront needs to render the
// landing page in one request.
type HomepagePayload struct {
	Settings           map[string]json.RawMessage `json:"settings"`
	FeaturedCategories []CategoryView             `json:"featured_categories"`
	FeaturedProducts   []ProductView              `json:"featured_products"`
}

// Homepage aggregates the public settings with the featured selections.
func (s *Service) Homepage(ctx context.Context) (*HomepagePayload, error) {
	settings, err := s.PublicConfig(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.FeaturedCategories(ctx, 6)
	if err != nil {
		return nil, err
	}
	products, err := s.FeaturedProducts(ctx, 8)
	if err != nil {
		return nil, err
	}
	return &HomepagePayload{
		Settings:           settings,
		FeaturedCategories: categories,
		FeaturedProducts:   products,
	}, nil
}

// AppConfig returns the minimal configuration a client needs at startup:
// store identity plus the public contact and feature settings.
func (s *Service) AppConfig(ctx context.Context) (map[string]any, error) {
	contact, err := s.publicCategoryValues(ctx, model.SettingCategoryContact)
	if err != nil {
		return nil, err
	}
	features, err := s.publicCategoryValues(ctx, model.SettingCategoryFeatures)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"name":     s.settingString(ctx, SettingKeySiteName),
		"tagline":  s.settingString(ctx, SettingKeySiteTagline),
		"contact":  contact,
		"features": features,
	}, nil
}

func (s *Service) publicCategoryValues(ctx context.Context, category string) (map[string]json.RawMessage, error) {
	settings, err := s.logic.ListSettings(ctx, true, category)
	if err != nil {
		return nil, err
	}
	values := make(map[string]json.RawMessage, len(settings))
	for _, st := range settings {
		values[st.Key] = json.RawMessage(st.Value)
	}
	return values, nil
}
