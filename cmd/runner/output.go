package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-runner/internal/dda"
	"github.com/vovakirdan/tui-runner/internal/sim"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// printSummaries prints one row per finished run.
func printSummaries(summaries []sim.Summary) {
	if len(summaries) == 0 {
		fmt.Println("No runs finished.")
		return
	}

	fmt.Println(titleStyle.Render("Runs"))
	fmt.Println()
	fmt.Println(headerStyle.Render(fmt.Sprintf("  %-4s  %10s  %7s  %-10s  %-10s  %9s  %8s",
		"Run", "Distance", "Ticks", "Peak tier", "End", "Obstacles", "Dodged")))

	for i, s := range summaries {
		r := s.Result
		fmt.Printf("  %-4d  %10.2f  %7d  %-10s  %-10s  %4d/%-4d  %8d\n",
			i+1, s.Record.Distance, r.Ticks, r.PeakTier, r.Reason,
			r.Stats.ObstaclesPlaced, r.Stats.ObstaclesTargeted, r.Dodged)
	}
	fmt.Println()
}

// printState prints the difficulty model state.
func printState(s dda.State) {
	mode := "adaptive"
	if !s.Enabled {
		mode = "fixed"
	}
	body := fmt.Sprintf(
		"Difficulty   %s\nSkill        %s\nPlayer type  %s\nSpeed        x%.3f\nDensity      x%.3f\nDeaths       %d\nLaunches     %d",
		mode, s.Skill, s.Type, s.Factors.SpeedModifier, s.Factors.ObstacleDensity, s.DeathCounter, s.LaunchCount,
	)
	fmt.Println(boxStyle.Render(body))
}
