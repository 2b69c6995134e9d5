package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment on posts",
	Long: `Add, edit, or delete comments on a post.

Examples:
  inkwell comment add <post-id> "Great write-up!"
  inkwell comment edit <post-id> <comment-id> "Great write-up, thanks!"
  inkwell comment delete <post-id> <comment-id>`,
}

var commentAddCmd = &cobra.Command{
	Use:   "add <post-id> <content>",
	Short: "Add a comment",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCommentAdd,
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <post-id> <comment-id> <content>",
	Short: "Edit one of your comments",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runCommentEdit,
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <post-id> <comment-id>",
	Short: "Delete one of your comments",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommentDelete,
}

func init() {
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentEditCmd)
	commentCmd.AddCommand(commentDeleteCmd)
}

func runCommentAdd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	content := strings.Join(args[1:], " ")
	if err := app.Posts.AddComment(cmd.Context(), args[0], content); err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}

	fmt.Println("Comment added.")
	return nil
}

func runCommentEdit(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	content := strings.Join(args[2:], " ")
	if err := app.Posts.EditComment(cmd.Context(), args[0], args[1], content); err != nil {
		return fmt.Errorf("failed to edit comment: %w", err)
	}

	fmt.Println("Comment updated.")
	return nil
}

func runCommentDelete(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	if err := app.Posts.DeleteComment(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	fmt.Println("Comment deleted.")
	return nil
}
