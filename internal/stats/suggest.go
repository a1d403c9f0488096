package stats

import (
	"context"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance is the largest edit distance still offered as a "did
// you mean" suggestion.
const maxSuggestDistance = 5

var scopeQueries = map[Scope]string{
	ScopePlayers: `SELECT name FROM players`,
	ScopeWeapons: `SELECT name FROM weapons`,
	ScopeMaps:    `SELECT name FROM maps`,
}

// Suggest returns the known name nearest to label within the scope, or the
// empty string if nothing is close enough. Used to make the empty-state card
// helpful when a stale drill-down label no longer resolves.
func (s *Store) Suggest(ctx context.Context, scope Scope, label string) string {
	rows, err := s.db.QueryContext(ctx, scopeQueries[scope])
	if err != nil {
		s.logger.Warn("looking up suggestions", "error", err, "label", label)
		return ""
	}
	defer rows.Close()

	best := ""
	bestDist := maxSuggestDistance + 1
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return ""
		}
		if d := levenshtein.ComputeDistance(label, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("looking up suggestions", "error", err, "label", label)
		return ""
	}
	return best
}
