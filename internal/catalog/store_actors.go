package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrAliasConflict indicates an alias is already bound to a different actor.
var ErrAliasConflict = errors.New("alias already bound to another actor")

// InsertActor adds a canonical actor identity. Insertion is idempotent: when
// the name already exists (case-insensitively) the existing actor is
// returned.
func (s *Store) InsertActor(ctx context.Context, name string) (*Actor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("actor name must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := findActorTx(ctx, tx, "SELECT id, name, created_at FROM actors WHERE name = ? COLLATE NOCASE", name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := tx.ExecContext(ctx, "INSERT INTO actors (name, created_at) VALUES (?, ?)", name, now)
	if err != nil {
		return nil, fmt.Errorf("insert actor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit actor: %w", err)
	}
	return s.GetActorByID(ctx, id)
}

// FindActor resolves a name against canonical names first, then aliases.
// It returns (nil, nil) when no identity matches.
func (s *Store) FindActor(ctx context.Context, name string) (*Actor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	actor, err := findActorRow(ctx, s.db, "SELECT id, name, created_at FROM actors WHERE name = ? COLLATE NOCASE", name)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		actor, err = findActorRow(ctx, s.db,
			`SELECT a.id, a.name, a.created_at
             FROM actors a JOIN actor_aliases al ON al.actor_id = a.id
             WHERE al.alias_name = ? COLLATE NOCASE`, name)
		if err != nil {
			return nil, err
		}
	}
	if actor == nil {
		return nil, nil
	}
	if actor.Aliases, err = s.aliasesFor(ctx, actor.ID); err != nil {
		return nil, err
	}
	return actor, nil
}

// GetActorByID loads an actor with its aliases.
func (s *Store) GetActorByID(ctx context.Context, id int64) (*Actor, error) {
	actor, err := findActorRow(ctx, s.db, "SELECT id, name, created_at FROM actors WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, nil
	}
	if actor.Aliases, err = s.aliasesFor(ctx, actor.ID); err != nil {
		return nil, err
	}
	return actor, nil
}

// AddAlias binds an alias to an actor. It reports false when the actor does
// not exist, the alias is empty, or the alias is already bound to a
// different actor; rebinding attempts additionally return ErrAliasConflict.
// Re-adding an existing binding reports true.
func (s *Store) AddAlias(ctx context.Context, alias string, actorID int64) (bool, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var actorExists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM actors WHERE id = ?", actorID).Scan(&actorExists); err != nil {
		return false, fmt.Errorf("check actor: %w", err)
	}
	if actorExists == 0 {
		return false, nil
	}

	var boundTo sql.NullInt64
	err = tx.QueryRowContext(ctx, "SELECT actor_id FROM actor_aliases WHERE alias_name = ? COLLATE NOCASE", alias).Scan(&boundTo)
	switch {
	case err == nil:
		if boundTo.Int64 == actorID {
			return true, nil
		}
		return false, fmt.Errorf("%w: %q", ErrAliasConflict, alias)
	case errors.Is(err, sql.ErrNoRows):
	default:
		return false, fmt.Errorf("check alias: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, "INSERT INTO actor_aliases (alias_name, actor_id, created_at) VALUES (?, ?, ?)", alias, actorID, now); err != nil {
		return false, fmt.Errorf("insert alias: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit alias: %w", err)
	}
	return true, nil
}

// ListActors returns every actor with aliases, ordered by name.
func (s *Store) ListActors(ctx context.Context) ([]Actor, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM actors ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}
	defer rows.Close()

	var actors []Actor
	for rows.Next() {
		actor, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		actors = append(actors, *actor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actors: %w", err)
	}

	for i := range actors {
		if actors[i].Aliases, err = s.aliasesFor(ctx, actors[i].ID); err != nil {
			return nil, err
		}
	}
	return actors, nil
}

func (s *Store) aliasesFor(ctx context.Context, actorID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT alias_name FROM actor_aliases WHERE actor_id = ?", actorID)
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	defer rows.Close()

	var aliases []string
	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		aliases = append(aliases, alias)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aliases: %w", err)
	}
	sort.Strings(aliases)
	return aliases, nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findActorRow(ctx context.Context, q rowQuerier, query string, args ...any) (*Actor, error) {
	row := q.QueryRowContext(ctx, query, args...)
	actor, err := scanActor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return actor, nil
}

func findActorTx(ctx context.Context, tx *sql.Tx, query string, args ...any) (*Actor, error) {
	return findActorRow(ctx, tx, query, args...)
}

func scanActor(scanner interface{ Scan(dest ...any) error }) (*Actor, error) {
	var (
		id         int64
		name       string
		createdRaw string
	)
	if err := scanner.Scan(&id, &name, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan actor: %w", err)
	}
	created, _ := time.Parse(time.RFC3339Nano, createdRaw)
	return &Actor{ID: id, Name: name, CreatedAt: created}, nil
}
