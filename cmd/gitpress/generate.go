// Copyright Jordan Morrow, 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmorrow/gitpress/internal/article"
	"github.com/jmorrow/gitpress/internal/edition"
	"github.com/jmorrow/gitpress/internal/gitsource"
	"github.com/jmorrow/gitpress/internal/history"
	"github.com/jmorrow/gitpress/internal/llm"
	"github.com/jmorrow/gitpress/internal/publish"
	"github.com/jmorrow/gitpress/internal/section"
	"github.com/jmorrow/gitpress/internal/secrets"
	"github.com/jmorrow/gitpress/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Produce and publish today's edition",
	Long: `Generate runs the full pipeline: fetch and rank candidates for the front
page and every configured section, write articles with the generative
backend, render the static site, and record the edition's headliners in
the archive database.

Repositories that headlined a recent edition are penalized so the paper
does not repeat itself day after day.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := types.LoadConfig(configPath())
	if err != nil {
		return err
	}
	secrets.Apply(&cfg, loadedSecrets)

	baseURL, _ := cmd.Flags().GetString("base-url")

	day := time.Now()
	if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
		day, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("parsing --date: %w", err)
		}
	}
	return generateEdition(ctx, cfg, day, baseURL)
}

func generateEdition(ctx context.Context, cfg types.PipelineConfig, day time.Time, baseURL string) error {
	store, err := history.NewStore(cfg.Edition.ArchiveDB)
	if err != nil {
		return err
	}
	defer store.Close()

	penalty, err := store.PenaltySet(ctx, day, cfg.Edition.HistoryWindow)
	if err != nil {
		return err
	}

	src := gitsource.New(cfg.Source)
	orch := &section.Orchestrator{Source: src, Cfg: cfg.Source, Warn: os.Stderr}
	if cfg.Source.EnableTrending {
		orch.Trending = src
	}

	gen := &article.Generator{
		Backend:   llm.New(cfg.AI),
		MaxTokens: cfg.AI.MaxTokens,
		Warn:      os.Stderr,
	}

	runner := &edition.Runner{Fetch: orch, Compose: gen, Cfg: cfg.Edition, Warn: os.Stderr}
	ed, err := runner.Run(ctx, day, penalty)
	if err != nil {
		return err
	}

	dates, err := store.Dates(ctx)
	if err != nil {
		return err
	}

	pub := &publish.Publisher{
		OutputDir: cfg.Edition.OutputDir,
		BaseURL:   baseURL,
		Titles:    sectionTitles(cfg.Edition),
	}
	if err := pub.Publish(ed, dates); err != nil {
		return err
	}

	if err := store.Record(ctx, day, edition.HeadlinerNames(ed)); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "published edition %s to %s\n",
		day.Format("2006-01-02"), cfg.Edition.OutputDir)
	return nil
}

// sectionTitles maps section ids to display titles for the publisher.
func sectionTitles(cfg types.EditionConfig) map[string]string {
	titles := map[string]string{edition.FrontPageID: "Front Page"}
	for _, s := range cfg.Sections {
		titles[s.ID] = s.Title
	}
	return titles
}

func init() {
	generateCmd.Flags().String("date", "", "edition date (YYYY-MM-DD, default today)")
	generateCmd.Flags().String("base-url", "", "site base URL for feed links")

	rootCmd.AddCommand(generateCmd)
}
