package main

import (
	"fmt"

	"github.com/ZaguanLabs/bilingo"
	"github.com/ZaguanLabs/bilingo/cache"
	"github.com/spf13/cobra"
)

func (a *app) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import cached translations",
	}
	cmd.AddCommand(a.cacheExportCmd(), a.cacheImportCmd())
	return cmd
}

func (a *app) cacheExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every cached record as JSON (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			ctx := cmd.Context()

			store := a.openStore(ctx)
			defer store.Close()
			if _, err := store.Load(ctx); err != nil {
				return err
			}

			meta := map[string]string{
				"source_lang": a.cfg.SourceLang,
				"target_lang": a.cfg.TargetLang,
				"version":     bilingo.FullVersion(),
			}

			exporter := cache.NewExporter(store)
			if len(args) == 0 {
				return exporter.Export(a.stdout, meta)
			}
			if err := exporter.ExportToFile(args[0], meta); err != nil {
				return err
			}
			a.log.Info().Int("records", store.Len()).Str("file", args[0]).Msg("exported")
			return nil
		},
	}
}

func (a *app) cacheImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load records from an export file into the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			ctx := cmd.Context()

			store := a.openStore(ctx)
			defer store.Close()
			if _, err := store.Load(ctx); err != nil {
				return err
			}

			result, err := cache.NewImporter(store).ImportFromFile(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%d records imported, %d failed\n", result.Imported, result.Failed)
			return nil
		},
	}
}
