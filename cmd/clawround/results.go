package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/clawround/internal/storage"
)

var (
	flagLimit  int
	flagBest   bool
	flagClear  bool
	flagBySeed string
)

var resultsCmd = &cobra.Command{
	Use:   "results [round]",
	Short: "Show stored results",
	Long: `Display stored results. With a round name, shows that round's most
recent results and its statistics; without one, shows per-round
statistics for everything played.

Examples:
  clawround results
  clawround results classic
  clawround results classic --best
  clawround results --seed ABC123
  clawround results classic --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of results to show")
	resultsCmd.Flags().BoolVar(&flagBest, "best", false, "Order by total instead of recency")
	resultsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the round's stored results")
	resultsCmd.Flags().StringVar(&flagBySeed, "seed", "", "Show the latest result played on a seed")
}

func runResults(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening results database: %w", err)
	}
	defer store.Close()

	if cmd.Flags().Changed("seed") {
		return showSeed(store, flagBySeed)
	}
	if len(args) == 0 {
		if flagClear {
			return fmt.Errorf("--clear needs a round name")
		}
		return showAllStats(store)
	}

	name := args[0]
	if flagClear {
		if err := store.ClearResults(name); err != nil {
			return err
		}
		fmt.Printf("Cleared results for %s.\n", name)
		return nil
	}

	var results []storage.ResultEntry
	if flagBest {
		results, err = store.BestResults(name, flagLimit)
	} else {
		results, err = store.RecentResults(name, flagLimit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Results - %s\n", name)
	fmt.Println()
	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'clawround play %s' to record the first one!\n", name)
		return nil
	}

	if err := printResults(results); err != nil {
		return err
	}

	stats, err := store.Stats(name)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Played %d, won %d (%.0f%%), best %d, average %.1f in %.1f grabs\n",
		stats.Played, stats.Won, stats.WinRate()*100, stats.BestTotal, stats.AvgTotal, stats.AvgGrabs)
	return nil
}

func printResults(results []storage.ResultEntry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  #\tTOTAL\tTARGET\tRESULT\tGRABS\tSEED\tPRESET\tDATE")
	for i, r := range results {
		outcome := "lost"
		if r.Success {
			outcome = "won"
		}
		fmt.Fprintf(w, "  %d\t%d\t%d\t%s\t%d\t%s\t%s\t%s\n",
			i+1, r.Total, r.Target, outcome, r.GrabsUsed, r.Seed, r.Preset, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func showSeed(store *storage.Store, seed string) error {
	r, err := store.ResultBySeed(seed)
	if err != nil {
		return err
	}
	if r == nil {
		fmt.Printf("No result recorded for seed %s.\n", seed)
		return nil
	}
	fmt.Printf("Seed %s - %s\n\n", seed, r.Round)
	return printResults([]storage.ResultEntry{*r})
}

func showAllStats(store *storage.Store) error {
	all, err := store.AllStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No results recorded yet.")
		return nil
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ROUND\tPLAYED\tWON\tWIN%\tBEST\tAVG\tLAST PLAYED")
	for _, name := range names {
		s := all[name]
		fmt.Fprintf(w, "  %s\t%d\t%d\t%.0f\t%d\t%.1f\t%s\n",
			name, s.Played, s.Won, s.WinRate()*100, s.BestTotal, s.AvgTotal, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
