// Package store provides read access to published news articles.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bloomiox/resusbih/internal/domain"
)

// ErrNotFound is returned when no article exists for the requested id.
var ErrNotFound = errors.New("article not found")

// ArticleStore is the read-only lookup used by the preview responder.
type ArticleStore interface {
	// GetArticle returns the article with the given id, or ErrNotFound.
	GetArticle(ctx context.Context, id int64) (*domain.ArticleSummary, error)
}

// getArticleQuery reads the preview-relevant columns of one news row.
const getArticleQuery = `
	SELECT id, title, short_description, full_content, image_url, created_at
	FROM news
	WHERE id = $1`

// PostgresStore reads articles from the news table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates an ArticleStore backed by the given database.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetArticle fetches a single article by id.
func (s *PostgresStore) GetArticle(ctx context.Context, id int64) (*domain.ArticleSummary, error) {
	var (
		a        domain.ArticleSummary
		imageURL sql.NullString
	)

	err := s.db.QueryRowContext(ctx, getArticleQuery, id).Scan(
		&a.ID, &a.Title, &a.ShortDescription, &a.FullContent, &imageURL, &a.PublishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query article %d: %w", id, err)
	}

	if imageURL.Valid {
		a.ImageURL = imageURL.String
	}
	return &a, nil
}

// Ping verifies the database connection, for health checks.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
