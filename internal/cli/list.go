package cli

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/fixfx/artifactd/pkg/artifacts"
	apperrors "github.com/fixfx/artifactd/pkg/errors"
)

// listCommand creates the list command printing the artifact catalog.
func (c *CLI) listCommand() *cobra.Command {
	var (
		platform   string
		status     string
		sortBy     string
		sortOrder  string
		limit      int
		offset     int
		includeEOL bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Synchronize once and print the artifact catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := apperrors.ValidatePlatform(platform); err != nil {
				return err
			}
			if err := apperrors.ValidateStatus(status); err != nil {
				return err
			}
			if err := apperrors.ValidateSort(sortBy, sortOrder); err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.newStore(ctx, cfg, noCache)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			spinner := newSpinner(ctx, "Synchronizing artifacts...")
			spinner.Start()

			snap := store.Ensure(ctx)
			spinner.Stop()
			if spinner.Cancelled() {
				return ctx.Err()
			}
			prog.done(fmt.Sprintf("Synchronized %d artifacts", snap.Count()))

			opts := artifacts.Options{
				Limit:      limit,
				Offset:     offset,
				IncludeEOL: includeEOL,
				SortBy:     sortBy,
				SortOrder:  sortOrder,
				Status:     artifacts.SupportStatus(status),
			}
			if p, ok := artifacts.ParsePlatform(platform); ok {
				opts.Platform = p
			}
			res := artifacts.Query(snap, opts)

			if res.Source == artifacts.SourceFallback {
				printWarning("Upstream unavailable, showing the fallback dataset")
			}
			for _, p := range res.Platforms {
				printCatalogTable(p, res.Data[p], res.Stats[p])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "", "windows or linux (default: both)")
	cmd.Flags().StringVar(&status, "status", "", "filter by support status")
	cmd.Flags().StringVar(&sortBy, "sort-by", "version", "sort key: version or date")
	cmd.Flags().StringVar(&sortOrder, "sort-order", "desc", "sort order: asc or desc")
	cmd.Flags().IntVar(&limit, "limit", artifacts.DefaultLimit, "maximum entries per platform")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")
	cmd.Flags().BoolVar(&includeEOL, "include-eol", false, "include end-of-life versions")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the upstream response cache")
	return cmd
}

// printCatalogTable renders one platform's window as a lipgloss table.
func printCatalogTable(p artifacts.Platform, c artifacts.Catalog, stats artifacts.Stats) {
	printNewline()
	fmt.Println(StyleTitle.Render(string(p)))

	if len(c) == 0 {
		printDetail("no matching artifacts")
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("VERSION", "STATUS", "PUBLISHED", "SUPPORT ENDS")
	for _, version := range sortVersionsDesc(c) {
		a := c[version]
		t.Row(
			StyleNumber.Render(version),
			renderStatus(a.SupportStatus),
			a.PublishedAt.Format(time.DateOnly),
			a.SupportEnds.Format(time.DateOnly),
		)
	}
	fmt.Println(t.Render())
	printDetail("%d total · %d filtered", stats.Total, stats.Filtered)
}

// sortVersionsDesc orders catalog versions numerically, newest first.
func sortVersionsDesc(c artifacts.Catalog) []string {
	versions := make([]string, 0, len(c))
	for v := range c {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		a, _ := strconv.Atoi(versions[i])
		b, _ := strconv.Atoi(versions[j])
		return a > b
	})
	return versions
}
