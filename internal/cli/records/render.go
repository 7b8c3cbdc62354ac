package records

import (
	"github.com/julianstephens/pomolit/internal/aggregator"
	"github.com/julianstephens/pomolit/internal/tui/components/stats"
)

// renderSummary reuses the TUI stats panel for terminal output
func renderSummary(s aggregator.Summary) string {
	m := stats.New()
	m.SetSummary(s)
	return m.View()
}
