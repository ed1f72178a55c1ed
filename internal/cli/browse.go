package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the browse command with the interactive artifact
// browser.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		includeEOL bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse artifacts interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.newStore(ctx, cfg, noCache)
			if err != nil {
				return err
			}

			spinner := newSpinner(ctx, "Synchronizing artifacts...")
			spinner.Start()
			snap := store.Ensure(ctx)
			spinner.Stop()
			if spinner.Cancelled() {
				return ctx.Err()
			}

			model := newBrowseModel(snap, includeEOL)
			_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&includeEOL, "include-eol", false, "include end-of-life versions")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the upstream response cache")
	return cmd
}
