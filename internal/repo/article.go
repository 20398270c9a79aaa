package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/blog-api/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type ArticleRepo struct {
	DB *sql.DB
}

func NewArticleRepo(db *sql.DB) *ArticleRepo {
	return &ArticleRepo{DB: db}
}

// ========================
// CREATE ARTICLE
// ========================

func (r *ArticleRepo) Create(ctx context.Context, authorID int, title, content string) (*models.Article, error) {
	var a models.Article
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO articles (title, content, author_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, title, content, author_id`,
		title, content, authorID,
	).Scan(&a.ID, &a.Title, &a.Content, &a.AuthorID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ========================
// LIST ALL ARTICLES
// ========================

func (r *ArticleRepo) List(ctx context.Context) ([]models.Article, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, title, content, author_id FROM articles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.AuthorID); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ========================
// GET ARTICLE BY ID
// ========================

func (r *ArticleRepo) GetByID(ctx context.Context, id int) (*models.Article, error) {
	var a models.Article
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, content, author_id
		 FROM articles
		 WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Title, &a.Content, &a.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ========================
// UPDATE ARTICLE BY ID
// ========================

func (r *ArticleRepo) Update(ctx context.Context, id int, title, content string) (*models.Article, error) {
	var a models.Article
	err := r.DB.QueryRowContext(ctx,
		`UPDATE articles
		 SET title = $1, content = $2
		 WHERE id = $3
		 RETURNING id, title, content, author_id`,
		title, content, id,
	).Scan(&a.ID, &a.Title, &a.Content, &a.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ========================
// DELETE ARTICLE (AND ITS COMMENTS)
// ========================

// Delete removes the article's comments and then the article in one
// transaction, so no comment outlives its article.
func (r *ArticleRepo) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// The row lock blocks comment inserts, whose foreign key check takes a
	// KEY SHARE lock on the article, until the delete commits.
	var locked int
	err = tx.QueryRowContext(ctx, "SELECT id FROM articles WHERE id = $1 FOR UPDATE", id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock article: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE article_id = $1", id); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	return tx.Commit()
}
