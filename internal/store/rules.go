package store

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/fin-insights/internal/fileutils"
	"fjacquet/fin-insights/internal/models"

	"gopkg.in/yaml.v3"
)

// FindConfigFile looks for a file as given, then under ./config and
// $HOME/.fin-insights.
func FindConfigFile(filename string) (string, error) {
	locations := []string{filename}
	if !filepath.IsAbs(filename) {
		locations = append(locations, filepath.Join("config", filename))
		if homeDir, err := os.UserHomeDir(); err == nil {
			locations = append(locations, filepath.Join(homeDir, ".fin-insights", filename))
		}
	}

	if found, ok := fileutils.FirstExisting(locations...); ok {
		return found, nil
	}
	return "", os.ErrNotExist
}

// LoadKeywordRules reads a keyword rules YAML file.
func LoadKeywordRules(filename string) (models.KeywordRules, error) {
	path, err := FindConfigFile(filename)
	if err != nil {
		return models.KeywordRules{}, fmt.Errorf("rules file %s: %w", filename, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.KeywordRules{}, fmt.Errorf("error reading rules file: %w", err)
	}

	var rules models.KeywordRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return models.KeywordRules{}, fmt.Errorf("error parsing rules file %s: %w", path, err)
	}
	if len(rules.MerchantRules) == 0 && len(rules.NotesRules) == 0 {
		return models.KeywordRules{}, fmt.Errorf("rules file %s defines no rules", path)
	}
	return rules, nil
}
