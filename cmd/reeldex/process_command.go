package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reeldex/internal/catalog"
	"reeldex/internal/config"
	"reeldex/internal/orchestrator"
	"reeldex/internal/resolver"
	"reeldex/internal/services/llm"
	"reeldex/internal/services/websearch"
)

var videoFileExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".webm": {},
	".mov":  {},
	".m4v":  {},
	".wmv":  {},
	".ts":   {},
}

type processOutcome struct {
	Path         string         `json:"path"`
	RunID        string         `json:"run_id"`
	State        string         `json:"state"`
	Standardized string         `json:"standardized_filename,omitempty"`
	Video        *catalog.Video `json:"video,omitempty"`
	Warnings     []string       `json:"warnings,omitempty"`
	Error        string         `json:"error,omitempty"`
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "process <path>...",
		Short: "Resolve metadata for video files and record them in the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := make([]string, 0, len(args))
			for _, arg := range args {
				absPath, err := validateVideoPath(arg)
				if err != nil {
					return err
				}
				paths = append(paths, absPath)
			}

			return ctx.withLockedStore(func(cfg *config.Config, store *catalog.Store) error {
				logger, err := ctx.buildLogger(cfg)
				if err != nil {
					return err
				}

				orch := orchestrator.New(cfg, store, resolver.New(store, logger), newCompleter(cfg), newSearcher(cfg), logger)

				outcomes := make([]processOutcome, 0, len(paths))
				var firstErr error
				for _, path := range paths {
					outcome := processOutcome{Path: path}
					result, err := orch.Process(cmd.Context(), path)
					if err != nil {
						outcome.Error = err.Error()
						if firstErr == nil {
							firstErr = fmt.Errorf("process %s: %w", filepath.Base(path), err)
						}
					} else {
						outcome.RunID = result.RunID
						outcome.State = string(result.State)
						outcome.Standardized = result.Video.StandardizedFilename
						outcome.Video = result.Video
						outcome.Warnings = result.Warnings
					}
					outcomes = append(outcomes, outcome)
				}

				if jsonOut {
					if err := writeJSON(cmd, outcomes); err != nil {
						return err
					}
					return firstErr
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, outcome := range outcomes {
					renderOutcome(out, outcome, colorize)
				}
				return firstErr
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}

// validateVideoPath accepts either an existing video file or a bare
// filename to resolve without touching the filesystem.
func validateVideoPath(arg string) (string, error) {
	ext := strings.ToLower(filepath.Ext(arg))
	if _, ok := videoFileExtensions[ext]; !ok {
		return "", fmt.Errorf("unsupported file extension %q", ext)
	}

	absPath, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if strings.ContainsRune(arg, os.PathSeparator) {
				return "", fmt.Errorf("file does not exist: %s", absPath)
			}
			return absPath, nil
		}
		return "", fmt.Errorf("inspect file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", absPath)
	}
	return absPath, nil
}

func newCompleter(cfg *config.Config) *llm.Client {
	settings := cfg.GetLLM()
	return llm.NewClient(llm.Config{
		APIKey:         settings.APIKey,
		BaseURL:        settings.BaseURL,
		Model:          settings.Model,
		Referer:        settings.Referer,
		Title:          settings.Title,
		TimeoutSeconds: settings.TimeoutSeconds,
	})
}

func newSearcher(cfg *config.Config) *websearch.Client {
	timeout := time.Duration(cfg.WebSearch.TimeoutSeconds) * time.Second
	return websearch.New(cfg.WebSearch.BaseURL, timeout)
}
