package models

// Comment belongs to exactly one article and is removed with it.
type Comment struct {
	ID        int    `json:"id"`
	ArticleID int    `json:"article"`
	Content   string `json:"content"`
	AuthorID  int    `json:"author"`
}
