package config

import (
	"errors"
	"fmt"
	"strings"

	"reeldex/internal/services"
)

// Validate ensures the configuration is usable. Providers are optional, so a
// missing LLM API key is not an error; processing simply skips enrichment.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validatePaths,
		c.validateLLM,
		c.validateWebSearch,
		c.validateEnrichment,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.CatalogDir) == "" {
		return errors.New("paths.catalog_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) != "" && strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.base_url must be set when llm.api_key is configured")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateWebSearch() error {
	return ensurePositiveMap(map[string]int{
		"web_search.max_results":     c.WebSearch.MaxResults,
		"web_search.timeout_seconds": c.WebSearch.TimeoutSeconds,
	})
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.TitleSimilarityThreshold <= 0 || c.Enrichment.TitleSimilarityThreshold > 1 {
		return errors.New("enrichment.title_similarity_threshold must be between 0 and 1")
	}
	if c.Enrichment.MaxFilenameLength < 50 {
		return errors.New("enrichment.max_filename_length must be at least 50")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
