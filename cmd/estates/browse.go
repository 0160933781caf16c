package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"estates/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive catalog browser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		model := tui.New(rt.catalog, tui.Options{
			Engine:           rt.engine,
			Formatter:        rt.formatter,
			DebounceDelay:    cfg.Search.DebounceDelay,
			CarouselInterval: cfg.UI.CarouselInterval,
		})
		defer model.Close()

		_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
		return err
	},
}
