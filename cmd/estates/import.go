package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"estates/internal/catalog"
	"estates/internal/storage/sqlite"
)

var importCmd = &cobra.Command{
	Use:   "import <fixture> <db>",
	Short: "Convert a JSON or YAML fixture into a sqlite snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := importSnapshot(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d projects into %s\n", n, args[1])
		return nil
	},
}

func importSnapshot(ctx context.Context, fixture, dbPath string) (int, error) {
	cat, err := catalog.Load(fixture)
	if err != nil {
		return 0, err
	}

	store, err := sqlite.Open(dbPath, logger)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	if err := store.ReplaceProjects(ctx, cat.Projects()); err != nil {
		return 0, err
	}
	logger.Info("snapshot written", slog.String("db", dbPath), slog.Int("projects", cat.Len()))
	return cat.Len(), nil
}
