package repo

import (
	"context"
	"errors"
	"time"

	"github.com/crucial707/blog-api/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken is returned when a signup collides with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
)

// UserStore persists accounts. Passwords arrive already hashed.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// ArticleStore persists articles. Delete also removes the article's comments.
type ArticleStore interface {
	Create(ctx context.Context, authorID int, title, content string) (*models.Article, error)
	List(ctx context.Context) ([]models.Article, error)
	GetByID(ctx context.Context, id int) (*models.Article, error)
	Update(ctx context.Context, id int, title, content string) (*models.Article, error)
	Delete(ctx context.Context, id int) error
}

// CommentStore persists comments. Create fails with ErrNotFound when the
// parent article is gone.
type CommentStore interface {
	Create(ctx context.Context, articleID, authorID int, content string) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID int) ([]models.Comment, error)
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	Update(ctx context.Context, id int, content string) (*models.Comment, error)
	Delete(ctx context.Context, id int) error
}

// SessionStore is the session table. Delete of a missing id is not an error.
type SessionStore interface {
	Create(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Pinger is implemented by backends that can report readiness.
type Pinger interface {
	PingContext(ctx context.Context) error
}
