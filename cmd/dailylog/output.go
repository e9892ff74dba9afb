// ABOUTME: Shared output and argument helpers for CLI commands.
// ABOUTME: Colored status lines, column padding, and timestamp flag parsing.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/dailylog/internal/models"
)

var faint = color.New(color.Faint)

func printSuccess(cmd *cobra.Command, format string, a ...interface{}) {
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ "+format+"\n", a...)
}

func printRemoved(cmd *cobra.Command, format string, a ...interface{}) {
	color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "✗ "+format+"\n", a...)
}

func printf(cmd *cobra.Command, format string, a ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}

func idLabel(id int64) string {
	return faint.Sprintf("#%d", id)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// parseAt parses a --at or --date flag; empty means now.
func parseAt(s string) (time.Time, error) {
	t, err := models.ParseWhen(s, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp: %s", s)
	}
	return t, nil
}
