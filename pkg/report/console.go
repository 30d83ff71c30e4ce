package report

import (
	"fmt"
	"io"

	"rfm-segments/pkg/segment"
)

// PrintSummary affiche le résumé par segment.
func PrintSummary(w io.Writer, summary []SegmentSummary) {
	fmt.Fprintf(w, "%-16s ; %9s ; %7s ; %12s\n", "Segment", "customers", "share", "avg_monetary")
	for _, s := range summary {
		fmt.Fprintf(w, "%-16s ; %9d ; %6.1f%% ; %12s\n", s.Segment, s.Count, s.Share, s.AvgMonetary.StringFixed(2))
	}
}

// PrintStrategies affiche la grille marketing ; les segments jamais calculés sont signalés.
func PrintStrategies(w io.Writer) {
	fmt.Fprintln(w, "Suggested Marketing Strategies:")
	for _, s := range segment.Strategies() {
		note := ""
		if _, ok := matchLabel(s.Segment); !ok {
			note = " [not computed]"
		}
		fmt.Fprintf(w, "- %s - %s: %s%s\n", s.Segment, s.Description, s.Action, note)
	}
	if labels, _ := segment.Unmatched(); len(labels) > 0 {
		fmt.Fprintf(w, "No strategy defined for: %v\n", labels)
	}
}
