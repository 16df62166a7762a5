package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const videoColumns = "id, filepath, code, title, publisher, duration_seconds, standardized_filename, enrichment_used, enrichment_sources, created_at, updated_at"

// UpsertVideo stores a consolidated record keyed by filepath, replacing any
// previous row and its actor links. Actor names must already be canonical;
// missing actor rows are created.
func (s *Store) UpsertVideo(ctx context.Context, video *Video) (*Video, error) {
	if video == nil {
		return nil, errors.New("video must not be nil")
	}
	if strings.TrimSpace(video.Filepath) == "" {
		return nil, errors.New("video filepath must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	sources, err := encodeSources(video.EnrichmentSources)
	if err != nil {
		return nil, err
	}

	var videoID int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM videos WHERE filepath = ?", video.Filepath).Scan(&videoID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, insertErr := tx.ExecContext(ctx,
			`INSERT INTO videos (
                filepath, code, title, publisher, duration_seconds,
                standardized_filename, enrichment_used, enrichment_sources,
                created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			video.Filepath,
			nullableString(video.Code),
			nullableString(video.Title),
			nullableString(video.Publisher),
			nullableInt(video.DurationSeconds),
			nullableString(video.StandardizedFilename),
			boolToInt(video.EnrichmentUsed),
			sources,
			now,
			now,
		)
		if insertErr != nil {
			return nil, fmt.Errorf("insert video: %w", insertErr)
		}
		if videoID, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
	case err == nil:
		if _, err := tx.ExecContext(ctx,
			`UPDATE videos SET
                code = ?, title = ?, publisher = ?, duration_seconds = ?,
                standardized_filename = ?, enrichment_used = ?, enrichment_sources = ?,
                updated_at = ?
             WHERE id = ?`,
			nullableString(video.Code),
			nullableString(video.Title),
			nullableString(video.Publisher),
			nullableInt(video.DurationSeconds),
			nullableString(video.StandardizedFilename),
			boolToInt(video.EnrichmentUsed),
			sources,
			now,
			videoID,
		); err != nil {
			return nil, fmt.Errorf("update video: %w", err)
		}
	default:
		return nil, fmt.Errorf("find video: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM video_actors WHERE video_id = ?", videoID); err != nil {
		return nil, fmt.Errorf("clear video actors: %w", err)
	}
	for _, name := range video.Actors {
		actorID, err := ensureActorTx(ctx, tx, name, now)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO video_actors (video_id, actor_id) VALUES (?, ?)", videoID, actorID); err != nil {
			return nil, fmt.Errorf("link video actor: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit video: %w", err)
	}
	return s.GetVideoByPath(ctx, video.Filepath)
}

// GetVideoByPath loads a stored video or (nil, nil) when absent.
func (s *Store) GetVideoByPath(ctx context.Context, filepath string) (*Video, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+videoColumns+" FROM videos WHERE filepath = ?", filepath)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if video.Actors, err = s.actorsForVideo(ctx, video.ID); err != nil {
		return nil, err
	}
	return video, nil
}

// ListVideos returns all catalogued videos ordered by filepath.
func (s *Store) ListVideos(ctx context.Context) ([]Video, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+videoColumns+" FROM videos ORDER BY filepath")
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	for i := range videos {
		if videos[i].Actors, err = s.actorsForVideo(ctx, videos[i].ID); err != nil {
			return nil, err
		}
	}
	return videos, nil
}

func (s *Store) actorsForVideo(ctx context.Context, videoID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.name FROM actors a
         JOIN video_actors va ON va.actor_id = a.id
         WHERE va.video_id = ?
         ORDER BY a.name COLLATE NOCASE`, videoID)
	if err != nil {
		return nil, fmt.Errorf("list video actors: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan video actor: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video actors: %w", err)
	}
	return names, nil
}

func ensureActorTx(ctx context.Context, tx *sql.Tx, name, now string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("actor name must not be empty")
	}
	var id int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM actors WHERE name = ? COLLATE NOCASE", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("find actor: %w", err)
	}
	res, err := tx.ExecContext(ctx, "INSERT INTO actors (name, created_at) VALUES (?, ?)", name, now)
	if err != nil {
		return 0, fmt.Errorf("insert actor: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func scanVideo(scanner interface{ Scan(dest ...any) error }) (*Video, error) {
	var (
		id           int64
		filepath     string
		code         sql.NullString
		title        sql.NullString
		publisher    sql.NullString
		duration     sql.NullInt64
		standardized sql.NullString
		enriched     sql.NullInt64
		sourcesRaw   sql.NullString
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(
		&id, &filepath, &code, &title, &publisher, &duration,
		&standardized, &enriched, &sourcesRaw, &createdRaw, &updatedRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan video: %w", err)
	}

	sources, err := decodeSources(sourcesRaw.String)
	if err != nil {
		return nil, err
	}
	created, _ := time.Parse(time.RFC3339Nano, createdRaw)
	updated, _ := time.Parse(time.RFC3339Nano, updatedRaw)

	return &Video{
		ID:                   id,
		Filepath:             filepath,
		Code:                 code.String,
		Title:                title.String,
		Publisher:            publisher.String,
		DurationSeconds:      duration.Int64,
		StandardizedFilename: standardized.String,
		EnrichmentUsed:       enriched.Int64 != 0,
		EnrichmentSources:    sources,
		CreatedAt:            created,
		UpdatedAt:            updated,
	}, nil
}

func encodeSources(sources []string) (any, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(sources)
	if err != nil {
		return nil, fmt.Errorf("marshal enrichment sources: %w", err)
	}
	return string(data), nil
}

func decodeSources(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var sources []string
	if err := json.Unmarshal([]byte(raw), &sources); err != nil {
		return nil, fmt.Errorf("unmarshal enrichment sources: %w", err)
	}
	return sources, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableInt(value int64) any {
	if value <= 0 {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
