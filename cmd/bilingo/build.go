package main

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaguanLabs/bilingo"
	"github.com/ZaguanLabs/bilingo/cache"
	"github.com/ZaguanLabs/bilingo/processor"
	"github.com/ZaguanLabs/bilingo/provider"
	"github.com/spf13/cobra"
)

func (a *app) buildCmd() *cobra.Command {
	var sourceDir, outDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Translate markdown posts into bilingual posts",
		Long: `Reads every markdown file under --source, translates the eligible posts
and writes all files to --out with the same layout. Posts that are skipped
or fail to translate are written unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			return a.build(cmd.Context(), sourceDir, outDir)
		},
	}

	cmd.Flags().StringVar(&sourceDir, "source", "source", "Site source directory")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) build(ctx context.Context, sourceDir, outDir string) error {
	start := time.Now()

	sources, err := findPosts(sourceDir, a.cfg.ManualDir)
	if err != nil {
		return err
	}

	posts := make([]*processor.Post, 0, len(sources))
	items := make([]bilingo.ContentItem, 0, len(sources))
	for _, src := range sources {
		p, err := processor.ReadPost(sourceDir, src)
		if err != nil {
			return err
		}
		posts = append(posts, p)
		items = append(items, p.Item())
	}

	translator, store, err := a.newTranslator(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing cache store")
		}
	}()

	a.log.Info().Int("posts", len(items)).Str("source", sourceDir).Msg("processing")
	results := translator.ProcessAll(ctx, items)

	for i, res := range results {
		posts[i].Apply(res.Item)
		if err := processor.WritePost(outDir, posts[i]); err != nil {
			return err
		}
	}

	titles := cache.TitlesPath(store.Path())
	if err := cache.WriteTitlePairs(titles, translator.TitlePairs()); err != nil {
		a.log.Warn().Err(err).Str("path", titles).Msg("saving title pairs")
	}

	sum := bilingo.Summarize(results)
	a.log.Info().
		Dur("elapsed", time.Since(start).Round(time.Millisecond)).
		Int("translated", sum[bilingo.StateSucceeded]).
		Int("cached", sum[bilingo.StateCacheHit]).
		Int("manual", sum[bilingo.StateManual]).
		Int("skipped", sum[bilingo.StateSkipped]).
		Int("failed", sum[bilingo.StateFailed]).
		Msg("done")

	fmt.Fprintf(a.stdout, "%d posts: %d translated, %d cached, %d manual, %d skipped, %d failed\n",
		len(results), sum[bilingo.StateSucceeded], sum[bilingo.StateCacheHit],
		sum[bilingo.StateManual], sum[bilingo.StateSkipped], sum[bilingo.StateFailed])
	return nil
}

// newTranslator assembles the transport chain and the translator. The
// returned store must be closed by the caller.
func (a *app) newTranslator(ctx context.Context) (*bilingo.Translator, *cache.Store, error) {
	core := a.cfg.Core()

	backend, err := provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey:   core.APIKey,
		Model:    core.Model,
		Endpoint: core.Endpoint,
	})
	if err != nil {
		return nil, nil, err
	}

	var transport bilingo.Transport = backend
	if core.RequestsPerMinute > 0 {
		transport = bilingo.NewRateLimitedTransport(transport, bilingo.RateLimitConfig{
			RequestsPerMinute: core.RequestsPerMinute,
		})
	}
	transport = bilingo.NewRetryingTransport(transport, core.RetryConfig(), bilingo.WithRetryLogger(a.log))

	store := a.openStore(ctx)
	translator := bilingo.NewTranslator(core, transport, store,
		bilingo.WithLogger(a.log),
		bilingo.WithManualSource(processor.NewManualStore(a.cfg.ManualDir)),
	)
	return translator, store, nil
}

// findPosts returns markdown files under dir relative to it. Directories
// starting with an underscore are skipped, except _posts; so is the manual
// translations directory.
func findPosts(dir, manualDir string) ([]string, error) {
	manualAbs, _ := filepath.Abs(manualDir)

	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == dir {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || (strings.HasPrefix(name, "_") && name != "_posts") {
				return filepath.SkipDir
			}
			if abs, _ := filepath.Abs(path); manualAbs != "" && abs == manualAbs {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return out, nil
}
