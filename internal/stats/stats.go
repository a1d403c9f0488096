// Package stats provides the read-only statistics projections behind every
// panel view: ten-row slices with total counts, plus single-record player
// lookups. The panel never interprets rows beyond their label (which doubles
// as the select-menu value) and pre-rendered detail line.
package stats

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a filter label or player name that no longer
// resolves to any data. The panel renders it as an explicit empty state, not
// a failure.
var ErrNotFound = errors.New("no matching rows")

// Row is one leaderboard entry.
type Row struct {
	// Label is the entry's display name. It is also the stable identifier
	// carried as a select-menu value and drill-down filter.
	Label string
	// Detail is the pre-rendered stat summary shown alongside the label.
	Detail string
}

// Slicer pages through one top-level leaderboard.
type Slicer interface {
	Slice(ctx context.Context, offset, limit int) ([]Row, error)
	Count(ctx context.Context) (int, error)
}

// FilteredSlicer pages through a drill-down leaderboard scoped to a parent
// label (a weapon or map name).
type FilteredSlicer interface {
	SliceFor(ctx context.Context, label string, offset, limit int) ([]Row, error)
	CountFor(ctx context.Context, label string) (int, error)
}

// Scope selects a namespace for nearest-name suggestions.
type Scope int

const (
	ScopePlayers Scope = iota
	ScopeWeapons
	ScopeMaps
)

// PlayerDetail is the single-record projection behind the terminal player
// profile view.
type PlayerDetail struct {
	Name           string
	Score          int
	Kills          int
	Deaths         int
	Accuracy       float64
	FavoriteWeapon string
	FavoriteMap    string
	LastSeen       time.Time
}
