// Package resolver maps raw performer names from filenames and provider
// suggestions onto canonical actor identities.
//
// A name resolves through the canonical table first and the alias table
// second. Names that resolve to nothing can be registered as new identities;
// registration is idempotent. An alias binds to exactly one actor and is
// never silently rebound.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"reeldex/internal/catalog"
	"reeldex/internal/logging"
	"reeldex/internal/services"
)

// Resolver performs identity resolution against the catalog store.
type Resolver struct {
	store  *catalog.Store
	logger *slog.Logger
}

// New constructs a resolver. A nil logger discards output.
func New(store *catalog.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{store: store, logger: logging.NewComponentLogger(logger, "resolver")}
}

// Resolve looks a name up against canonical names and aliases. It returns
// (nil, nil) when nothing matches; absence is not an error.
func (r *Resolver) Resolve(ctx context.Context, name string) (*catalog.Actor, error) {
	actor, err := r.store.FindActor(ctx, name)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "resolver", "resolve", "look up actor", err)
	}
	return actor, nil
}

// NameFor returns the canonical name for an actor ID, or "" when no actor
// carries the ID.
func (r *Resolver) NameFor(ctx context.Context, actorID int64) (string, error) {
	actor, err := r.store.GetActorByID(ctx, actorID)
	if err != nil {
		return "", services.Wrap(services.ErrPersistence, "resolver", "name-for", "look up actor by id", err)
	}
	if actor == nil {
		return "", nil
	}
	return actor.Name, nil
}

// Register adds a canonical identity, returning the existing one when the
// name is already known.
func (r *Resolver) Register(ctx context.Context, name string) (*catalog.Actor, error) {
	if strings.TrimSpace(name) == "" {
		return nil, services.Wrap(services.ErrValidation, "resolver", "register", "actor name must not be empty", nil)
	}
	actor, err := r.store.InsertActor(ctx, name)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "resolver", "register", "insert actor", err)
	}
	return actor, nil
}

// Ensure resolves a name to its canonical form, registering a new identity
// when the name is unknown.
func (r *Resolver) Ensure(ctx context.Context, name string) (*catalog.Actor, error) {
	actor, err := r.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	if actor != nil {
		return actor, nil
	}
	actor, err = r.Register(ctx, name)
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "registered new actor", logging.String("actor", actor.Name))
	return actor, nil
}

// AddAlias binds an alias to the actor with the given canonical name. It
// reports false without error when the actor is unknown, the alias is empty,
// or the alias already belongs to a different actor.
func (r *Resolver) AddAlias(ctx context.Context, alias, actorName string) (bool, error) {
	actor, err := r.Resolve(ctx, actorName)
	if err != nil {
		return false, err
	}
	if actor == nil {
		r.logger.WarnContext(ctx, "alias target not found", logging.String("actor", actorName))
		return false, nil
	}
	ok, err := r.store.AddAlias(ctx, alias, actor.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrAliasConflict) {
			r.logger.WarnContext(ctx, "alias already bound to another actor",
				logging.String("alias", alias),
				logging.String("actor", actorName))
			return false, nil
		}
		return false, services.Wrap(services.ErrPersistence, "resolver", "add-alias", "insert alias", err)
	}
	return ok, nil
}

// Aliases returns the aliases bound to a canonical name, or nil when the
// actor is unknown.
func (r *Resolver) Aliases(ctx context.Context, actorName string) ([]string, error) {
	actor, err := r.Resolve(ctx, actorName)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, nil
	}
	return actor.Aliases, nil
}

// EnsureAll resolves a list of raw names to canonical names, registering
// unknowns, deduplicating, and preserving first-seen order.
func (r *Resolver) EnsureAll(ctx context.Context, names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	canonical := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		actor, err := r.Ensure(ctx, name)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(actor.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		canonical = append(canonical, actor.Name)
	}
	return canonical, nil
}
