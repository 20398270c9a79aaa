package comments

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
// Init Comments
// ==========================
func InitComments(rootCmd *cobra.Command) {
	rootCmd.AddCommand(commentsCmd())
}

func commentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write comments",
	}
	cmd.AddCommand(
		listCommentsCmd(),
		getCommentCmd(),
		createCommentCmd(),
		updateCommentCmd(),
		deleteCommentCmd(),
	)
	return cmd
}

// ==========================
// LIST (per article)
// ==========================
func listCommentsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [article-id]",
		Short: "List the comments on an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			articleID, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Default()
			if err != nil {
				return err
			}
			var list []models.Comment
			if err := c.Do(cmd.Context(), http.MethodGet, fmt.Sprintf("/article/%d/comment", articleID), nil, &list); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), list)
			}
			rows := make([][]interface{}, 0, len(list))
			for _, cm := range list {
				rows = append(rows, []interface{}{cm.ID, cm.AuthorID, cm.Content})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Author", "Content"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// GET
// ==========================
func getCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one comment",
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
			var cm models.Comment
			if err := c.Do(cmd.Context(), http.MethodGet, fmt.Sprintf("/comment/%d", id), nil, &cm); err != nil {
				return err
			}
			printComment(cmd, cm)
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createCommentCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "create [article-id]",
		Short: "Comment on an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			articleID, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Default()
			if err != nil {
				return err
			}
			var cm models.Comment
			path := fmt.Sprintf("/article/%d/comment", articleID)
			if err := c.Do(cmd.Context(), http.MethodPost, path, map[string]string{"content": content}, &cm); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment %d created on article %d\n", cm.ID, cm.ArticleID)
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "comment text")
	cmd.MarkFlagRequired("content")
	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateCommentCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Replace a comment's text",
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
			var cm models.Comment
			if err := c.Do(cmd.Context(), http.MethodPut, fmt.Sprintf("/comment/%d", id), map[string]string{"content": content}, &cm); err != nil {
				return err
			}
			printComment(cmd, cm)
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "new text")
	cmd.MarkFlagRequired("content")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a comment",
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
			if err := c.Do(cmd.Context(), http.MethodDelete, fmt.Sprintf("/comment/%d", id), nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment %d deleted\n", id)
			return nil
		},
	}
}

func printComment(cmd *cobra.Command, cm models.Comment) {
	output.RenderTable(cmd.OutOrStdout(),
		[]string{"ID", "Article", "Author", "Content"},
		[][]interface{}{{cm.ID, cm.ArticleID, cm.AuthorID, cm.Content}})
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
