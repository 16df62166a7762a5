package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reeldex/internal/catalog"
	"reeldex/internal/config"
	"reeldex/internal/services"
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	videoCmd := &cobra.Command{
		Use:     "video",
		Aliases: []string{"videos"},
		Short:   "Browse catalogued videos",
	}

	videoCmd.AddCommand(newVideoListCommand(ctx))
	videoCmd.AddCommand(newVideoShowCommand(ctx))

	return videoCmd
}

func newVideoListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				videos, err := store.ListVideos(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, videos)
				}

				if len(videos) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No videos catalogued yet")
					return nil
				}

				rows := make([][]string, 0, len(videos))
				for _, video := range videos {
					rows = append(rows, []string{
						strconv.FormatInt(video.ID, 10),
						video.Code,
						video.Title,
						strings.Join(video.Actors, ", "),
						video.StandardizedFilename,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Code", "Title", "Actors", "Standardized"}, rows, 0))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}

func newVideoShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Show catalogued metadata for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				video, err := store.GetVideoByPath(cmd.Context(), absPath)
				if err != nil {
					return err
				}
				if video == nil {
					return fmt.Errorf("%w: no catalogued video for %s", services.ErrNotFound, absPath)
				}

				if jsonOut {
					return writeJSON(cmd, video)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Video #%d: %s\n", video.ID, video.Filepath)
				fmt.Fprintf(out, "  Code:         %s\n", orDash(video.Code))
				fmt.Fprintf(out, "  Title:        %s\n", orDash(video.Title))
				fmt.Fprintf(out, "  Publisher:    %s\n", orDash(video.Publisher))
				fmt.Fprintf(out, "  Actors:       %s\n", orDash(strings.Join(video.Actors, ", ")))
				fmt.Fprintf(out, "  Standardized: %s\n", video.StandardizedFilename)
				fmt.Fprintf(out, "  Enriched:     %s\n", yesNo(video.EnrichmentUsed))
				if len(video.EnrichmentSources) > 0 {
					fmt.Fprintf(out, "  Sources:      %s\n", strings.Join(video.EnrichmentSources, ", "))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
