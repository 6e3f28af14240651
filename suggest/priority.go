// CLAUDE:SUMMARY Remediation priority ladder over unused bytes and unused percentage.
// Package suggest converts coverage reports and loading chains into
// prioritized optimization suggestions: code-split candidates, lazy-load
// candidates, heavy-dependency alternatives, and bundle-merge candidates.
//
// Everything here is a pure, total function over already-computed structures:
// no I/O, and empty inputs produce empty outputs rather than errors.
package suggest

// Priority describes how urgent a remediation is. Each bundle scores
// independently; the ladder is absolute, not a relative ranking.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// Rank returns the sort rank, critical first. Unknown values sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// Score places a bundle on the priority ladder. Thresholds are strict:
// exactly 100KiB unused is not critical by bytes alone, and exactly 50%
// unused is not critical by percent alone.
func Score(unusedBytes int64, unusedPercent float64) Priority {
	switch {
	case unusedBytes > 100*1024 || unusedPercent > 50:
		return PriorityCritical
	case unusedBytes > 50*1024 || unusedPercent > 30:
		return PriorityHigh
	case unusedBytes > 20*1024 || unusedPercent > 20:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
