package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reeldex/internal/catalog"
	"reeldex/internal/config"
	"reeldex/internal/resolver"
	"reeldex/internal/services"
)

func newActorCommand(ctx *commandContext) *cobra.Command {
	actorCmd := &cobra.Command{
		Use:     "actor",
		Aliases: []string{"actors"},
		Short:   "Manage actor identities and aliases",
	}

	actorCmd.AddCommand(newActorListCommand(ctx))
	actorCmd.AddCommand(newActorAddCommand(ctx))
	actorCmd.AddCommand(newActorAliasCommand(ctx))
	actorCmd.AddCommand(newActorAliasesCommand(ctx))
	actorCmd.AddCommand(newActorShowCommand(ctx))

	return actorCmd
}

func newActorListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued actors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				actors, err := store.ListActors(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, actors)
				}

				if len(actors) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No actors catalogued yet")
					return nil
				}

				rows := make([][]string, 0, len(actors))
				for _, actor := range actors {
					rows = append(rows, []string{
						strconv.FormatInt(actor.ID, 10),
						actor.Name,
						strings.Join(actor.Aliases, ", "),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Aliases"}, rows, 0))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}

func newActorAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Register a canonical actor name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(func(cfg *config.Config, store *catalog.Store) error {
				res := resolver.New(store, nil)

				existing, err := res.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if existing != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Actor already catalogued as %q (#%d)\n", existing.Name, existing.ID)
					return nil
				}

				actor, err := res.Register(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered actor %q (#%d)\n", actor.Name, actor.ID)
				return nil
			})
		},
	}
}

func newActorAliasCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "alias <alias> <canonical>",
		Short: "Bind an alternate name to a catalogued actor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(func(cfg *config.Config, store *catalog.Store) error {
				res := resolver.New(store, nil)

				actor, err := res.Resolve(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				if actor == nil {
					return fmt.Errorf("unknown actor %q; register it first with `reeldex actor add`", args[1])
				}

				added, err := res.AddAlias(cmd.Context(), args[0], actor.Name)
				if err != nil {
					return err
				}
				if !added {
					return fmt.Errorf("alias %q is already bound to a different actor", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Alias %q now resolves to %q\n", args[0], actor.Name)
				return nil
			})
		},
	}
}

func newActorAliasesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "aliases <name>",
		Short: "List the aliases bound to an actor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				aliases, err := resolver.New(store, nil).Aliases(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(aliases) == 0 {
					fmt.Fprintf(out, "No aliases for %q\n", args[0])
					return nil
				}
				for _, alias := range aliases {
					fmt.Fprintln(out, alias)
				}
				return nil
			})
		},
	}
}

func newActorShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the canonical identity behind a name or alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				actor, err := resolver.New(store, nil).Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if actor == nil {
					return fmt.Errorf("%w: no actor matches %q", services.ErrNotFound, args[0])
				}

				if jsonOut {
					return writeJSON(cmd, actor)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Actor #%d: %s\n", actor.ID, actor.Name)
				if len(actor.Aliases) > 0 {
					fmt.Fprintf(out, "Aliases: %s\n", strings.Join(actor.Aliases, ", "))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}
