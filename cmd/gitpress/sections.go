// Copyright Jordan Morrow, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmorrow/gitpress/internal/edition"
	"github.com/jmorrow/gitpress/pkg/types"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Print the configured section layout",
	Long: `Sections prints each configured section with its topics, language
filters, and slot budget, in the order they appear in the edition.`,
	RunE: runSections,
}

func runSections(cmd *cobra.Command, args []string) error {
	cfg, err := types.LoadConfig(configPath())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-28s  %-36s  %s\n", "ID", "Title", "Topics/Languages", "Budget")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 92))

	front := cfg.Edition.FrontPageBudget
	fmt.Fprintf(os.Stdout, "%-12s  %-28s  %-36s  %s\n",
		edition.FrontPageID, "Front Page", "(broad search + trending)", budgetString(front))

	for _, s := range cfg.Edition.Sections {
		var filters []string
		for _, t := range s.Topics {
			filters = append(filters, "topic:"+t)
		}
		for _, l := range s.Languages {
			filters = append(filters, "lang:"+l)
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-28s  %-36s  %s\n",
			s.ID, s.Title, strings.Join(filters, " "), budgetString(s.Budget))
	}
	return nil
}

func budgetString(b types.Budget) string {
	return fmt.Sprintf("1 lead + %d secondary + %d quick hits", b.Secondary, b.QuickHits)
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
