package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/inkwell/internal/draft"
	"github.com/existflow/inkwell/internal/model"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage local drafts",
	Long: `Keep unpublished compositions locally until they are ready.

Examples:
  inkwell draft save --title "WIP" --file notes.md
  inkwell draft list
  inkwell draft publish <draft-id>
  inkwell draft delete <draft-id>`,
}

var draftSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a draft locally",
	RunE:  runDraftSave,
}

var draftListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List local drafts",
	RunE:    runDraftList,
}

var draftPublishCmd = &cobra.Command{
	Use:   "publish <draft-id>",
	Short: "Publish a draft to the platform",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftPublish,
}

var draftDeleteCmd = &cobra.Command{
	Use:   "delete <draft-id>",
	Short: "Delete a local draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftDelete,
}

var (
	draftID      string
	draftTitle   string
	draftFile    string
	draftExcerpt string
	draftCat     string
	draftTags    []string
)

func init() {
	draftSaveCmd.Flags().StringVar(&draftID, "id", "", "Existing draft to overwrite")
	draftSaveCmd.Flags().StringVar(&draftTitle, "title", "", "Draft title")
	draftSaveCmd.Flags().StringVar(&draftFile, "file", "", "File containing the draft body")
	draftSaveCmd.Flags().StringVar(&draftExcerpt, "excerpt", "", "Short excerpt")
	draftSaveCmd.Flags().StringVar(&draftCat, "category", "", "Category name")
	draftSaveCmd.Flags().StringSliceVar(&draftTags, "tag", nil, "Tag (repeatable)")

	draftCmd.AddCommand(draftSaveCmd)
	draftCmd.AddCommand(draftListCmd)
	draftCmd.AddCommand(draftPublishCmd)
	draftCmd.AddCommand(draftDeleteCmd)
}

func runDraftSave(cmd *cobra.Command, args []string) error {
	if draftTitle == "" || draftFile == "" {
		return fmt.Errorf("--title and --file are required")
	}
	body, err := os.ReadFile(draftFile)
	if err != nil {
		return fmt.Errorf("failed to read draft body: %w", err)
	}

	drafts, err := draft.OpenDefault()
	if err != nil {
		return err
	}
	defer drafts.Close()

	d := draft.Draft{
		ID:      draftID,
		Title:   draftTitle,
		Content: string(body),
		Excerpt: draftExcerpt,
		Tags:    draftTags,
	}
	if draftCat != "" {
		d.Category = model.Category{
			Name: draftCat,
			Slug: strings.ToLower(strings.ReplaceAll(draftCat, " ", "-")),
		}
	}

	if err := drafts.Save(&d); err != nil {
		return err
	}
	fmt.Printf("Draft saved (%s)\n", d.ID)
	return nil
}

func runDraftList(cmd *cobra.Command, args []string) error {
	drafts, err := draft.OpenDefault()
	if err != nil {
		return err
	}
	defer drafts.Close()

	all, err := drafts.List()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No drafts. Save one with: inkwell draft save --title ... --file ...")
		return nil
	}

	for _, d := range all {
		fmt.Printf("%s  %-40s  updated %s\n",
			d.ID, d.Title, d.UpdatedAt.Local().Format("Jan 2 15:04"))
	}
	return nil
}

func runDraftPublish(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	drafts, err := draft.OpenDefault()
	if err != nil {
		return err
	}
	defer drafts.Close()

	d, err := drafts.Get(args[0])
	if err != nil {
		return err
	}

	post, err := app.Posts.CreatePost(cmd.Context(), d.Input(model.StatusPublished))
	if err != nil {
		return fmt.Errorf("failed to publish draft: %w", err)
	}

	// The platform copy is now authoritative
	if err := drafts.Delete(d.ID); err != nil {
		return fmt.Errorf("published as %s but failed to remove draft: %w", post.ID, err)
	}

	fmt.Printf("Published %q (%s)\n", post.Title, post.ID)
	return nil
}

func runDraftDelete(cmd *cobra.Command, args []string) error {
	drafts, err := draft.OpenDefault()
	if err != nil {
		return err
	}
	defer drafts.Close()

	if err := drafts.Delete(args[0]); err != nil {
		return err
	}
	fmt.Println("Draft deleted.")
	return nil
}
