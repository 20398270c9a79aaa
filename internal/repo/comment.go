package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/blog-api/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type CommentRepo struct {
	DB *sql.DB
}

func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{DB: db}
}

// ========================
// CREATE COMMENT
// ========================

// Create inserts a comment under articleID. A foreign key violation means the
// article was deleted after the caller checked for it.
func (r *CommentRepo) Create(ctx context.Context, articleID, authorID int, content string) (*models.Comment, error) {
	var c models.Comment
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO comments (article_id, content, author_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, article_id, content, author_id`,
		articleID, content, authorID,
	).Scan(&c.ID, &c.ArticleID, &c.Content, &c.AuthorID)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ========================
// LIST COMMENTS OF AN ARTICLE
// ========================

func (r *CommentRepo) ListByArticle(ctx context.Context, articleID int) ([]models.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, article_id, content, author_id
		 FROM comments
		 WHERE article_id = $1
		 ORDER BY id`,
		articleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.Content, &c.AuthorID); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ========================
// GET COMMENT BY ID
// ========================

func (r *CommentRepo) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var c models.Comment
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, article_id, content, author_id
		 FROM comments
		 WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.ArticleID, &c.Content, &c.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ========================
// UPDATE COMMENT BY ID
// ========================

func (r *CommentRepo) Update(ctx context.Context, id int, content string) (*models.Comment, error) {
	var c models.Comment
	err := r.DB.QueryRowContext(ctx,
		`UPDATE comments
		 SET content = $1
		 WHERE id = $2
		 RETURNING id, article_id, content, author_id`,
		content, id,
	).Scan(&c.ID, &c.ArticleID, &c.Content, &c.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ========================
// DELETE COMMENT BY ID
// ========================

func (r *CommentRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
