package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "List the authored rounds",
	Long:  `Shows every round in the configuration with its target, grabs and pool size.`,
	RunE:  runRounds,
}

var ballsCmd = &cobra.Command{
	Use:   "balls",
	Short: "List the ball catalog",
	Long:  `Shows every ball archetype: category, value, radius and mass.`,
	RunE:  runBalls,
}

func runRounds(_ *cobra.Command, _ []string) error {
	file, err := loadConfig()
	if err != nil {
		return err
	}
	if len(file.Rounds) == 0 {
		fmt.Println("No rounds configured.")
		return nil
	}

	fmt.Println("Available rounds:")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tTARGET\tGRABS\tBALLS\tDESCRIPTION")
	for _, r := range file.Rounds {
		balls := 0
		for _, p := range r.Pool {
			balls += p.Count
		}
		fmt.Fprintf(w, "  %s\t%d\t%d\t%d\t%s\n", r.Name, r.Target, r.Grabs, balls, r.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Run 'clawround play <name>' to play a round.")
	return nil
}

func runBalls(_ *cobra.Command, _ []string) error {
	file, err := loadConfig()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tCATEGORY\tVALUE\tRADIUS\tMASS\tVISUAL")
	for _, b := range file.Balls {
		fmt.Fprintf(w, "  %s\t%s\t%g\t%g\t%g\t%s\n", b.ID, b.Category, b.Value, b.Radius, b.Mass, b.Visual)
	}
	return w.Flush()
}
