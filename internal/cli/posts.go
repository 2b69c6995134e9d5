package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/inkwell/internal/api"
	"github.com/existflow/inkwell/internal/model"
)

var postsCmd = &cobra.Command{
	Use:     "posts",
	Aliases: []string{"p"},
	Short:   "Browse and manage posts",
	Long: `Browse and manage posts on the platform.

Examples:
  inkwell posts list
  inkwell posts list --category tooling --page 2
  inkwell posts view <id>
  inkwell posts create --title "Hello" --file post.md
  inkwell posts delete <id>`,
}

var postsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List published posts",
	RunE:    runPostsList,
}

var postsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a single post with comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsView,
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new post",
	RunE:  runPostsCreate,
}

var postsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsUpdate,
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsDelete,
}

var (
	listPage     int
	listCategory string
	listTags     []string
	listSearch   string

	postTitle       string
	postFile        string
	postExcerpt     string
	postCat         string
	postTags        []string
	postImage       string
	postDraftStatus bool
)

func init() {
	postsListCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page to fetch")
	postsListCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	postsListCmd.Flags().StringSliceVarP(&listTags, "tag", "t", nil, "Filter by tag (repeatable)")
	postsListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search title and excerpt")

	for _, c := range []*cobra.Command{postsCreateCmd, postsUpdateCmd} {
		c.Flags().StringVar(&postTitle, "title", "", "Post title")
		c.Flags().StringVar(&postFile, "file", "", "File containing the post body")
		c.Flags().StringVar(&postExcerpt, "excerpt", "", "Short excerpt")
		c.Flags().StringVar(&postCat, "category", "", "Category name")
		c.Flags().StringSliceVar(&postTags, "tag", nil, "Tag (repeatable)")
		c.Flags().StringVar(&postImage, "image", "", "Featured image file")
		c.Flags().BoolVar(&postDraftStatus, "draft", false, "Keep the post unpublished")
	}

	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsViewCmd)
	postsCmd.AddCommand(postsCreateCmd)
	postsCmd.AddCommand(postsUpdateCmd)
	postsCmd.AddCommand(postsDeleteCmd)
}

func runPostsList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if listCategory != "" {
		app.Posts.SetCategory(listCategory)
	}
	if len(listTags) > 0 {
		app.Posts.SetTags(listTags)
	}
	if listSearch != "" {
		app.Posts.SetSearch(listSearch)
	}
	// Filters reset the page, so the explicit flag wins last
	if listPage > 1 {
		app.Posts.SetPage(listPage)
	}

	if err := app.Posts.FetchPosts(cmd.Context()); err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}

	posts := app.Posts.Posts()
	if len(posts) == 0 {
		fmt.Println("No posts found.")
		return nil
	}

	for _, p := range posts {
		printPostLine(&p)
	}
	pg := app.Posts.Pagination()
	fmt.Printf("\nPage %d of %d (%d posts)\n", pg.CurrentPage, pg.TotalPages, pg.TotalPosts)
	return nil
}

func printPostLine(p *model.Post) {
	tags := ""
	if len(p.Tags) > 0 {
		tags = " #" + strings.Join(p.Tags, " #")
	}
	fmt.Printf("%s  %-40s  %s  ♥%d 💬%d%s\n",
		p.ID, p.Title, p.Author.DisplayName(), len(p.Likes), len(p.Comments), tags)
}

func runPostsView(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if err := app.Posts.FetchPost(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to fetch post: %w", err)
	}

	p := app.Posts.Viewing()
	fmt.Printf("%s\nby %s in %s — %s\n\n%s\n",
		p.Title, p.Author.DisplayName(), p.Category.Name,
		p.CreatedAt.Local().Format("Jan 2, 2006"), p.Content)

	fmt.Printf("\n%d likes, %d comments\n", len(p.Likes), len(p.Comments))
	for _, c := range p.Comments {
		fmt.Printf("  [%s] %s: %s\n", c.ID, c.User.DisplayName(), c.Content)
	}
	return nil
}

// postInput assembles the API payload from the create/update flags
func postInput() (api.PostInput, error) {
	input := api.PostInput{
		Title:         postTitle,
		Excerpt:       postExcerpt,
		Tags:          postTags,
		FeaturedImage: postImage,
		Status:        model.StatusPublished,
	}
	if postDraftStatus {
		input.Status = model.StatusDraft
	}
	if postCat != "" {
		input.Category = &model.Category{
			Name: postCat,
			Slug: strings.ToLower(strings.ReplaceAll(postCat, " ", "-")),
		}
	}
	if postFile != "" {
		body, err := os.ReadFile(postFile)
		if err != nil {
			return input, fmt.Errorf("failed to read post body: %w", err)
		}
		input.Content = string(body)
	}
	return input, nil
}

func runPostsCreate(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	input, err := postInput()
	if err != nil {
		return err
	}
	if input.Title == "" || input.Content == "" {
		return fmt.Errorf("--title and --file are required")
	}

	post, err := app.Posts.CreatePost(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	fmt.Printf("Published %q (%s)\n", post.Title, post.ID)
	return nil
}

func runPostsUpdate(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	input, err := postInput()
	if err != nil {
		return err
	}

	post, err := app.Posts.UpdatePost(cmd.Context(), args[0], input)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	fmt.Printf("Updated %q\n", post.Title)
	return nil
}

func runPostsDelete(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	if err := app.Posts.DeletePost(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	fmt.Println("Post deleted.")
	return nil
}
