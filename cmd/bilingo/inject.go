package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaguanLabs/bilingo"
	"github.com/ZaguanLabs/bilingo/cache"
	"github.com/ZaguanLabs/bilingo/processor"
	"github.com/spf13/cobra"
)

func (a *app) injectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inject <public-dir>",
		Short: "Add the language switcher to rendered HTML pages",
		Long: `Rewrites every HTML page under <public-dir> in place, adding the switcher
style, the title pairs saved by the last build and those of all cached
translations, and the toggle script.
Running it again replaces the previous injection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			return a.inject(cmd.Context(), args[0])
		},
	}
}

func (a *app) inject(ctx context.Context, dir string) error {
	store := a.openStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing cache store")
		}
	}()

	titles := cache.TitlesPath(store.Path())
	saved, err := cache.ReadTitlePairs(titles)
	if err != nil {
		a.log.Warn().Err(err).Str("path", titles).Msg("title pairs unreadable, using cached records only")
	}
	records, _ := store.Load(ctx)
	pairs := bilingo.MergeTitlePairs(saved, records)
	injector := processor.NewInjector(a.cfg.SourceLang, a.cfg.TargetLang)

	pages := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}

		data, err := os.ReadFile(path) // #nosec G304 - walking the site output directory
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if !processor.IsPage(string(data)) {
			return nil
		}

		out, err := injector.Inject(string(data), pairs)
		if err != nil {
			return fmt.Errorf("injecting %s: %w", path, err)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		pages++
		return nil
	})
	if err != nil {
		return err
	}

	a.log.Info().Int("pages", pages).Int("title_pairs", len(pairs)).Msg("injected")
	fmt.Fprintf(a.stdout, "%d pages injected with %d title pairs\n", pages, len(pairs))
	return nil
}
