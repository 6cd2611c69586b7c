package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gopkg.in/yaml.v3"

	"github.com/vega-tools/catalog/biz/dal/model"
)

// settingsFile is the on-disk shape of one defaults file. Each file covers
// one setting category; values are arbitrary YAML converted to JSON before
// storage.
type settingsFile struct {
	Category string `yaml:"category"`
	Settings []struct {
		Key         string `yaml:"key"`
		Public      bool   `yaml:"public"`
		Description string `yaml:"description"`
		Value       any    `yaml:"value"`
	} `yaml:"settings"`
}

// LoadSettingDefaults parses every YAML file in dir and remembers the
// results as the seeded defaults, keyed by setting key. A missing directory
// just means there is nothing to seed.
func (s *Service) LoadSettingDefaults(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings defaults dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := strings.ToLower(filepath.Ext(e.Name())); ext == ".yml" || ext == ".yaml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read settings defaults %s: %w", name, err)
		}
		var file settingsFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse settings defaults %s: %w", name, err)
		}
		if !model.IsValidSettingCategory(file.Category) {
			return fmt.Errorf("settings defaults %s: unknown category %q", name, file.Category)
		}
		for _, entry := range file.Settings {
			value, err := json.Marshal(entry.Value)
			if err != nil {
				return fmt.Errorf("settings defaults %s: encode %s: %w", name, entry.Key, err)
			}
			s.settingDefaults[entry.Key] = model.SiteSetting{
				Key:         entry.Key,
				Category:    file.Category,
				Value:       string(value),
				IsSystem:    true,
				IsPublic:    entry.Public,
				Description: entry.Description,
			}
		}
	}
	return nil
}

// SeedSettings creates any seeded default that does not exist yet. Existing
// settings keep their current value; seeding never overwrites edits.
func (s *Service) SeedSettings(ctx context.Context) error {
	keys := make([]string, 0, len(s.settingDefaults))
	for key := range s.settingDefaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	created := 0
	for _, key := range keys {
		exists, err := s.logic.settingDAO.ExistsByKey(ctx, s.logic.db, key)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		def := s.settingDefaults[key]
		if err := s.logic.AddSetting(ctx, &def); err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		hlog.Infof("seeded %d site settings", created)
	}
	return nil
}

// ResetSetting restores a setting to its seeded default value. Settings that
// were never seeded have nothing to reset to.
func (s *Service) ResetSetting(ctx context.Context, key string) error {
	def, ok := s.settingDefaults[key]
	if !ok {
		return ErrSettingNotSystem
	}
	return s.logic.UpdateSetting(ctx, key, def.Value, nil)
}
