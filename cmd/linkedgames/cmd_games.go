package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"linkedgames/internal/games"
)

// gamesCmd lists the supported game identifiers.
var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the supported games",
	Run: func(cmd *cobra.Command, args []string) {
		for _, g := range games.All() {
			p, _ := games.ProfileFor(g)
			fmt.Printf("  %-12s %s\n", g, p.URL)
		}
	},
}
