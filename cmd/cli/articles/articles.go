package articles

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/crucial707/blog-api/cmd/cli/client"
	"github.com/crucial707/blog-api/cmd/cli/output"
	"github.com/crucial707/blog-api/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Articles
// ==========================
func InitArticles(rootCmd *cobra.Command) {
	rootCmd.AddCommand(articlesCmd())
}

func articlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Read and write articles",
	}
	cmd.AddCommand(
		listArticlesCmd(),
		getArticleCmd(),
		createArticleCmd(),
		updateArticleCmd(),
		deleteArticleCmd(),
	)
	return cmd
}

// ==========================
// LIST
// ==========================
func listArticlesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Default()
			if err != nil {
				return err
			}
			var list []models.Article
			if err := c.Do(cmd.Context(), http.MethodGet, "/article", nil, &list); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), list)
			}
			rows := make([][]interface{}, 0, len(list))
			for _, a := range list {
				rows = append(rows, []interface{}{a.ID, a.Title, a.AuthorID})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Author"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// GET
// ==========================
func getArticleCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Default()
			if err != nil {
				return err
			}
			var a models.Article
			if err := c.Do(cmd.Context(), http.MethodGet, fmt.Sprintf("/article/%d", id), nil, &a); err != nil {
				return err
			}
			return printArticle(cmd, a, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// CREATE
// ==========================
func createArticleCmd() *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Default()
			if err != nil {
				return err
			}
			var a models.Article
			payload := map[string]string{"title": title, "content": content}
			if err := c.Do(cmd.Context(), http.MethodPost, "/article", payload, &a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Article %d created\n", a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "article title")
	cmd.Flags().StringVar(&content, "content", "", "article body")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("content")
	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateArticleCmd() *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Replace an article's title and content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Default()
			if err != nil {
				return err
			}
			var a models.Article
			payload := map[string]string{"title": title, "content": content}
			if err := c.Do(cmd.Context(), http.MethodPut, fmt.Sprintf("/article/%d", id), payload, &a); err != nil {
				return err
			}
			return printArticle(cmd, a, false)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new body")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("content")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteArticleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an article and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Default()
			if err != nil {
				return err
			}
			if err := c.Do(cmd.Context(), http.MethodDelete, fmt.Sprintf("/article/%d", id), nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Article %d deleted\n", id)
			return nil
		},
	}
}

func printArticle(cmd *cobra.Command, a models.Article, asJSON bool) error {
	if asJSON {
		return output.PrintJSON(cmd.OutOrStdout(), a)
	}
	output.RenderTable(cmd.OutOrStdout(),
		[]string{"ID", "Title", "Author", "Content"},
		[][]interface{}{{a.ID, a.Title, a.AuthorID, a.Content}})
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
