package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/vega-tools/catalog/biz/dal/model"
	"gorm.io/gorm"
)

// --------------------- Site Setting Operations ---------------------

func (l *Logic) AddSetting(ctx context.Context, s *model.SiteSetting) error {
	if s == nil {
		return nil
	}
	if !json.Valid([]byte(s.Value)) {
		return ErrInvalidJSON
	}
	return l.settingDAO.Create(ctx, l.db, s)
}

func (l *Logic) GetSetting(ctx context.Context, key string) (*model.SiteSetting, error) {
	s, err := l.settingDAO.GetByKey(ctx, l.db, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}
	return s, err
}

func (l *Logic) ListSettings(ctx context.Context, publicOnly bool, category string) ([]model.SiteSetting, error) {
	return l.settingDAO.List(ctx, l.db, publicOnly, category)
}

// SettingValue returns the parsed JSON value of a setting.
func (l *Logic) SettingValue(ctx context.Context, key string) (json.RawMessage, error) {
	s, err := l.GetSetting(ctx, key)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(s.Value), nil
}

// UpdateSetting replaces the value of an existing setting. The value must be
// valid JSON; the setting's key, category and system flag never change.
func (l *Logic) UpdateSetting(ctx context.Context, key, value string, updatedByID *uint) error {
	if !json.Valid([]byte(value)) {
		return ErrInvalidJSON
	}
	if _, err := l.GetSetting(ctx, key); err != nil {
		return err
	}
	return l.settingDAO.UpdateValue(ctx, l.db, key, value, updatedByID)
}

func (l *Logic) DeleteSetting(ctx context.Context, key string) error {
	err := l.settingDAO.Delete(ctx, l.db, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSettingNotFound
	}
	return err
}

// PublicConfig aggregates every public setting into one key/value document
// for the storefront to bootstrap from.
func (l *Logic) PublicConfig(ctx context.Context) (map[string]json.RawMessage, error) {
	settings, err := l.settingDAO.List(ctx, l.db, true, "")
	if err != nil {
		return nil, err
	}
	cfg := make(map[string]json.RawMessage, len(settings))
	for _, s := range settings {
		cfg[s.Key] = json.RawMessage(s.Value)
	}
	return cfg, nil
}
