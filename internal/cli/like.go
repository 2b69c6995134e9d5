package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var likeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Toggle your like on a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runLike,
}

func runLike(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	liked, err := app.Posts.ToggleLike(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to toggle like: %w", err)
	}

	if liked {
		fmt.Println("Liked.")
	} else {
		fmt.Println("Like removed.")
	}
	return nil
}
