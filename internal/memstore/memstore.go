// Package memstore is an in-process implementation of the repo interfaces.
// All records share one lock so cross-record rules (unique usernames,
// comment cascade on article delete) hold under concurrent requests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
)

// DB holds every table in memory.
type DB struct {
	mu sync.RWMutex

	users       map[int]models.User
	usernames   map[string]int
	articles    map[int]models.Article
	comments    map[int]models.Comment
	sessions    map[string]models.Session
	nextUser    int
	nextArticle int
	nextComment int
}

// New returns an empty DB.
func New() *DB {
	return &DB{
		users:     make(map[int]models.User),
		usernames: make(map[string]int),
		articles:  make(map[int]models.Article),
		comments:  make(map[int]models.Comment),
		sessions:  make(map[string]models.Session),
	}
}

// Users returns the user table.
func (db *DB) Users() *UserStore { return &UserStore{db: db} }

// Articles returns the article table.
func (db *DB) Articles() *ArticleStore { return &ArticleStore{db: db} }

// Comments returns the comment table.
func (db *DB) Comments() *CommentStore { return &CommentStore{db: db} }

// Sessions returns the session table.
func (db *DB) Sessions() *SessionStore { return &SessionStore{db: db} }

// PingContext always succeeds.
func (db *DB) PingContext(ctx context.Context) error { return ctx.Err() }

type UserStore struct{ db *DB }

func (s *UserStore) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, taken := s.db.usernames[username]; taken {
		return nil, repo.ErrUsernameTaken
	}
	s.db.nextUser++
	u := models.User{ID: s.db.nextUser, Username: username, PasswordHash: passwordHash}
	s.db.users[u.ID] = u
	s.db.usernames[username] = u.ID
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	id, ok := s.db.usernames[username]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u := s.db.users[id]
	return &u, nil
}

type ArticleStore struct{ db *DB }

func (s *ArticleStore) Create(ctx context.Context, authorID int, title, content string) (*models.Article, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextArticle++
	a := models.Article{ID: s.db.nextArticle, Title: title, Content: content, AuthorID: authorID}
	s.db.articles[a.ID] = a
	return &a, nil
}

func (s *ArticleStore) List(ctx context.Context) ([]models.Article, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]models.Article, 0, len(s.db.articles))
	for _, a := range s.db.articles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ArticleStore) GetByID(ctx context.Context, id int) (*models.Article, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.articles[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &a, nil
}

func (s *ArticleStore) Update(ctx context.Context, id int, title, content string) (*models.Article, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a, ok := s.db.articles[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	a.Title = title
	a.Content = content
	s.db.articles[id] = a
	return &a, nil
}

// Delete removes the article and every comment under it.
func (s *ArticleStore) Delete(ctx context.Context, id int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.articles[id]; !ok {
		return repo.ErrNotFound
	}
	for cid, c := range s.db.comments {
		if c.ArticleID == id {
			delete(s.db.comments, cid)
		}
	}
	delete(s.db.articles, id)
	return nil
}

type CommentStore struct{ db *DB }

func (s *CommentStore) Create(ctx context.Context, articleID, authorID int, content string) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.articles[articleID]; !ok {
		return nil, repo.ErrNotFound
	}
	s.db.nextComment++
	c := models.Comment{ID: s.db.nextComment, ArticleID: articleID, Content: content, AuthorID: authorID}
	s.db.comments[c.ID] = c
	return &c, nil
}

func (s *CommentStore) ListByArticle(ctx context.Context, articleID int) ([]models.Comment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []models.Comment{}
	for _, c := range s.db.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *CommentStore) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	c, ok := s.db.comments[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func (s *CommentStore) Update(ctx context.Context, id int, content string) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c, ok := s.db.comments[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c.Content = content
	s.db.comments[id] = c
	return &c, nil
}

func (s *CommentStore) Delete(ctx context.Context, id int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.comments[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.db.comments, id)
	return nil
}

type SessionStore struct{ db *DB }

func (s *SessionStore) Create(ctx context.Context, sess models.Session) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.sessions[sess.ID] = sess
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	sess, ok := s.db.sessions[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.sessions, id)
	return nil
}

func (s *SessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var n int64
	for id, sess := range s.db.sessions {
		if sess.Expired(now) {
			delete(s.db.sessions, id)
			n++
		}
	}
	return n, nil
}

var (
	_ repo.UserStore    = (*UserStore)(nil)
	_ repo.ArticleStore = (*ArticleStore)(nil)
	_ repo.CommentStore = (*CommentStore)(nil)
	_ repo.SessionStore = (*SessionStore)(nil)
	_ repo.Pinger       = (*DB)(nil)
)
