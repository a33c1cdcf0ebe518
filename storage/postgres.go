package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"immofolio/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// InitSchema creates the domain tables if they do not exist yet.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS search_prompts (
		id BIGSERIAL PRIMARY KEY,
		prompt TEXT NOT NULL,
		active BOOLEAN DEFAULT true,
		last_run_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS annonces (
		id UUID PRIMARY KEY,
		source VARCHAR(20) NOT NULL,
		external_url TEXT NOT NULL UNIQUE,
		title TEXT,
		price INTEGER,
		surface TEXT,
		location TEXT,
		rooms TEXT,
		bedrooms TEXT,
		image_url TEXT,
		image_s3_key TEXT,
		description TEXT,
		property_type TEXT,
		energy_rating TEXT,
		floor TEXT,
		charges TEXT,
		blocked BOOLEAN DEFAULT false,
		dismissed BOOLEAN DEFAULT false,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS comments (
		id BIGSERIAL PRIMARY KEY,
		annonce_id UUID NOT NULL REFERENCES annonces(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id),
		username TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// =============================================================================
// Users
// =============================================================================

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2)
		 RETURNING id, username, password_hash, created_at`,
		username, passwordHash,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// =============================================================================
// Annonces
// =============================================================================

const annonceColumns = `id, source, external_url, title, price, surface, location, rooms,
	bedrooms, image_url, image_s3_key, description, property_type, energy_rating,
	floor, charges, blocked, dismissed, created_at, updated_at`

func scanAnnonce(row pgx.Row) (*models.Annonce, error) {
	var a models.Annonce
	err := row.Scan(
		&a.ID, &a.Source, &a.ExternalURL, &a.Title, &a.Price, &a.Surface,
		&a.Location, &a.Rooms, &a.Bedrooms, &a.ImageURL, &a.ImageS3Key,
		&a.Description, &a.PropertyType, &a.EnergyRating, &a.Floor, &a.Charges,
		&a.Blocked, &a.Dismissed, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) CreateAnnonce(ctx context.Context, a *models.Annonce) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	query := `
		INSERT INTO annonces (
			id, source, external_url, title, price, surface, location, rooms,
			bedrooms, image_url, description, property_type, energy_rating,
			floor, charges, blocked
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`
	return s.pool.QueryRow(ctx, query,
		a.ID, a.Source, a.ExternalURL, a.Title, a.Price, a.Surface, a.Location,
		a.Rooms, a.Bedrooms, a.ImageURL, a.Description, a.PropertyType,
		a.EnergyRating, a.Floor, a.Charges, a.Blocked,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (s *PostgresStore) GetAnnonce(ctx context.Context, id uuid.UUID) (*models.Annonce, error) {
	a, err := scanAnnonce(s.pool.QueryRow(ctx,
		`SELECT `+annonceColumns+` FROM annonces WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// GetAnnonceByURL looks up an annonce by its external URL. De-duplication
// is by URL: one tracked annonce per listing page.
func (s *PostgresStore) GetAnnonceByURL(ctx context.Context, externalURL string) (*models.Annonce, error) {
	a, err := scanAnnonce(s.pool.QueryRow(ctx,
		`SELECT `+annonceColumns+` FROM annonces WHERE external_url = $1`, externalURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (s *PostgresStore) ListAnnonces(ctx context.Context) ([]models.Annonce, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+annonceColumns+` FROM annonces WHERE dismissed = false ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annonces []models.Annonce
	for rows.Next() {
		a, err := scanAnnonce(rows)
		if err != nil {
			return nil, err
		}
		annonces = append(annonces, *a)
	}
	return annonces, rows.Err()
}

// UpdateAnnonce applies a partial update: nil fields keep their current
// value (COALESCE semantics, matching manual-edit behavior).
func (s *PostgresStore) UpdateAnnonce(ctx context.Context, id uuid.UUID, u *models.AnnonceUpdate) (*models.Annonce, error) {
	query := `
		UPDATE annonces SET
			title = COALESCE($1, title), price = COALESCE($2, price),
			surface = COALESCE($3, surface), location = COALESCE($4, location),
			rooms = COALESCE($5, rooms), bedrooms = COALESCE($6, bedrooms),
			description = COALESCE($7, description), property_type = COALESCE($8, property_type),
			energy_rating = COALESCE($9, energy_rating), floor = COALESCE($10, floor),
			charges = COALESCE($11, charges), updated_at = NOW()
		WHERE id = $12
		RETURNING ` + annonceColumns
	a, err := scanAnnonce(s.pool.QueryRow(ctx, query,
		u.Title, u.Price, u.Surface, u.Location, u.Rooms, u.Bedrooms,
		u.Description, u.PropertyType, u.EnergyRating, u.Floor, u.Charges, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (s *PostgresStore) DismissAnnonce(ctx context.Context, id uuid.UUID) (*models.Annonce, error) {
	a, err := scanAnnonce(s.pool.QueryRow(ctx,
		`UPDATE annonces SET dismissed = true, updated_at = NOW() WHERE id = $1 RETURNING `+annonceColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (s *PostgresStore) DeleteAnnonce(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM annonces WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListAnnoncesPendingImage returns annonces whose image has not been
// archived yet, oldest first.
func (s *PostgresStore) ListAnnoncesPendingImage(ctx context.Context, limit int) ([]models.Annonce, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+annonceColumns+` FROM annonces
		 WHERE image_url IS NOT NULL AND image_s3_key IS NULL AND dismissed = false
		 ORDER BY created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annonces []models.Annonce
	for rows.Next() {
		a, err := scanAnnonce(rows)
		if err != nil {
			return nil, err
		}
		annonces = append(annonces, *a)
	}
	return annonces, rows.Err()
}

func (s *PostgresStore) SetAnnonceImageKey(ctx context.Context, id uuid.UUID, s3Key string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE annonces SET image_s3_key = $1, updated_at = NOW() WHERE id = $2`, s3Key, id)
	return err
}

// =============================================================================
// Comments
// =============================================================================

func (s *PostgresStore) CommentCounts(ctx context.Context) (map[uuid.UUID]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT annonce_id, COUNT(*)::int FROM comments GROUP BY annonce_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (s *PostgresStore) ListComments(ctx context.Context, annonceID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, annonce_id, user_id, username, content, created_at
		 FROM comments WHERE annonce_id = $1 ORDER BY created_at ASC`, annonceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.AnnonceID, &c.UserID, &c.Username, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *PostgresStore) CreateComment(ctx context.Context, c *models.Comment) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO comments (annonce_id, user_id, username, content)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		c.AnnonceID, c.UserID, c.Username, c.Content,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *PostgresStore) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	var c models.Comment
	err := s.pool.QueryRow(ctx,
		`SELECT id, annonce_id, user_id, username, content, created_at FROM comments WHERE id = $1`, id,
	).Scan(&c.ID, &c.AnnonceID, &c.UserID, &c.Username, &c.Content, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) DeleteComment(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}

// =============================================================================
// Search prompts
// =============================================================================

func (s *PostgresStore) ListSearchPrompts(ctx context.Context) ([]models.SearchPrompt, error) {
	return s.querySearchPrompts(ctx,
		`SELECT id, prompt, active, last_run_at, created_at
		 FROM search_prompts ORDER BY created_at ASC`)
}

func (s *PostgresStore) ListActiveSearchPrompts(ctx context.Context) ([]models.SearchPrompt, error) {
	return s.querySearchPrompts(ctx,
		`SELECT id, prompt, active, last_run_at, created_at
		 FROM search_prompts WHERE active = true ORDER BY created_at ASC`)
}

func (s *PostgresStore) querySearchPrompts(ctx context.Context, query string) ([]models.SearchPrompt, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prompts []models.SearchPrompt
	for rows.Next() {
		var p models.SearchPrompt
		if err := rows.Scan(&p.ID, &p.Prompt, &p.Active, &p.LastRunAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

func (s *PostgresStore) CreateSearchPrompt(ctx context.Context, prompt string) (*models.SearchPrompt, error) {
	var p models.SearchPrompt
	err := s.pool.QueryRow(ctx,
		`INSERT INTO search_prompts (prompt) VALUES ($1)
		 RETURNING id, prompt, active, last_run_at, created_at`, prompt,
	).Scan(&p.ID, &p.Prompt, &p.Active, &p.LastRunAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) SetSearchPromptActive(ctx context.Context, id int64, active bool) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE search_prompts SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) DeleteSearchPrompt(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM search_prompts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) TouchSearchPrompt(ctx context.Context, id int64, at time.Time) error {
	_, err := s.pool.Exec(ctx, `UPDATE search_prompts SET last_run_at = $1 WHERE id = $2`, at, id)
	return err
}
