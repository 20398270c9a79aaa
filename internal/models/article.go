package models

// Article is a blog post. AuthorID never changes after creation.
type Article struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID int    `json:"author"`
}
