package config

const (
	defaultCatalogDir               = "~/.local/share/reeldex"
	defaultLogDir                   = "~/.local/share/reeldex/logs"
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
	defaultLLMBaseURL               = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel                 = "google/gemini-3-flash-preview"
	defaultLLMReferer               = "https://github.com/reeldex/reeldex"
	defaultLLMTitle                 = "Reeldex Metadata Resolver"
	defaultLLMTimeoutSeconds        = 60
	defaultWebSearchBaseURL         = "http://127.0.0.1:8888/search"
	defaultWebSearchMaxResults      = 5
	defaultWebSearchTimeoutSeconds  = 20
	defaultTitleSimilarityThreshold = 0.85
	defaultMaxFilenameLength        = 200
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogDir: defaultCatalogDir,
			LogDir:     defaultLogDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		WebSearch: WebSearch{
			BaseURL:        defaultWebSearchBaseURL,
			MaxResults:     defaultWebSearchMaxResults,
			TimeoutSeconds: defaultWebSearchTimeoutSeconds,
		},
		Enrichment: Enrichment{
			Enabled:                  true,
			TitleSimilarityThreshold: defaultTitleSimilarityThreshold,
			MaxFilenameLength:        defaultMaxFilenameLength,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
