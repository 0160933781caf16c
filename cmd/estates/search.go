package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"estates/internal/format"
	"estates/internal/models"
	"estates/internal/query"
)

var (
	searchOpts searchOptions

	searchCmd = &cobra.Command{
		Use:   "search [term]",
		Short: "Run a one-shot query against the catalog",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			searchOpts.Term = strings.Join(args, " ")
			return runSearch(cmd.OutOrStdout(), rt, searchOpts)
		},
	}
)

type searchOptions struct {
	Term     string
	Category string
	Status   string
	Chip     string
	Limit    int
	Grouped  bool
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchOpts.Category, "category", "", "Only projects in this category")
	f.StringVar(&searchOpts.Status, "status", "", "Only projects with this status")
	f.StringVar(&searchOpts.Chip, "chip", "", "Filter chip (all, luxury, affordable, ongoing, completed)")
	f.IntVar(&searchOpts.Limit, "limit", 0, "Maximum number of results")
	f.BoolVar(&searchOpts.Grouped, "grouped", false, "Group results by category and status")
}

func runSearch(w io.Writer, rt *app, opts searchOptions) error {
	if opts.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	chip, err := query.ParseChip(opts.Chip)
	if err != nil {
		return err
	}
	q := chip.Apply(query.Query{Term: opts.Term, Limit: opts.Limit})
	if opts.Category != "" {
		q.Category = opts.Category
	}
	if opts.Status != "" {
		q.Status = opts.Status
	}

	res := rt.engine.Run(rt.catalog, q)
	if res.Matched == 0 {
		fmt.Fprintln(w, "No projects match. Try a different search or loosen the filters.")
		return nil
	}

	if opts.Grouped {
		for _, cat := range res.Groups {
			for _, st := range cat.Statuses {
				fmt.Fprintf(w, "%s • %s\n", cat.Category, st.Status)
				for _, p := range st.Projects {
					fmt.Fprintf(w, "  %s  %s\n", p.Title, rt.formatter.Price(p.Price))
				}
			}
		}
	} else {
		for _, p := range res.Projects {
			fmt.Fprintln(w, projectRow(rt.formatter, p))
		}
	}
	fmt.Fprintf(w, "%d of %d projects\n", res.Matched, res.Total)
	return nil
}

func projectRow(f *format.Formatter, p models.Project) string {
	row := fmt.Sprintf("%-4s %s", p.ID, p.Title)
	if p.Location != "" {
		row += " (" + p.Location + ")"
	}
	return row + "  " + f.Price(p.Price)
}
