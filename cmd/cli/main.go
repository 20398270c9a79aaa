package main

import (
	"github.com/crucial707/blog-api/cmd/cli/articles"
	"github.com/crucial707/blog-api/cmd/cli/auth"
	"github.com/crucial707/blog-api/cmd/cli/comments"
	"github.com/crucial707/blog-api/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	articles.InitArticles(rootCmd)
	comments.InitComments(rootCmd)

	root.Execute()
}
