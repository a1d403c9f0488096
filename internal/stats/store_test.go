package stats

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fragboard/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(StoreOptions{
		Path:   filepath.Join(t.TempDir(), "stats.db"),
		Logger: logging.Discard,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()

	// 23 players, scores strictly descending so the ladder order is fixed.
	for i := 0; i < 23; i++ {
		_, err := s.db.Exec(`
			INSERT INTO players (name, score, kills, deaths, accuracy, favorite_weapon, favorite_map, last_seen)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			fmt.Sprintf("player%02d", i), 2300-i*100, 120-i, 30+i, 0.42, "Rifle", "de_dust2",
			time.Date(2026, 8, 30, 21, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}

	for _, w := range []struct {
		name             string
		kills, headshots int
	}{
		{"Rifle", 400, 120},
		{"Shotgun", 150, 10},
		{"Knife", 12, 0},
	} {
		_, err := s.db.Exec(`INSERT INTO weapons (name, kills, headshots) VALUES (?, ?, ?)`,
			w.name, w.kills, w.headshots)
		require.NoError(t, err)
	}

	for _, m := range []struct {
		name   string
		rounds int
		hours  float64
	}{
		{"de_dust2", 90, 41.5},
		{"de_inferno", 55, 20.0},
	} {
		_, err := s.db.Exec(`INSERT INTO maps (name, rounds, hours) VALUES (?, ?, ?)`,
			m.name, m.rounds, m.hours)
		require.NoError(t, err)
	}

	for _, wk := range []struct {
		weapon, player string
		kills          int
	}{
		{"Rifle", "player00", 80},
		{"Rifle", "player01", 60},
		{"Rifle", "player02", 40},
		{"Shotgun", "player05", 30},
	} {
		_, err := s.db.Exec(`INSERT INTO weapon_kills (weapon, player, kills) VALUES (?, ?, ?)`,
			wk.weapon, wk.player, wk.kills)
		require.NoError(t, err)
	}

	for _, mr := range []struct {
		mapName, player string
		rounds, wins    int
	}{
		{"de_dust2", "player01", 50, 30},
		{"de_dust2", "player03", 20, 5},
	} {
		_, err := s.db.Exec(`INSERT INTO map_rounds (map, player, rounds, wins) VALUES (?, ?, ?, ?)`,
			mr.mapName, mr.player, mr.rounds, mr.wins)
		require.NoError(t, err)
	}
}

func TestStore_ladderPagination(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	total, err := s.Ladder().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 23, total)

	// First page: the ten highest scores, best first.
	page, err := s.Ladder().Slice(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 10)
	assert.Equal(t, "player00", page[0].Label)
	assert.Equal(t, "2300 pts · 120 kills · 30 deaths", page[0].Detail)
	assert.Equal(t, "player09", page[9].Label)

	// Last page holds the final three rows.
	page, err = s.Ladder().Slice(ctx, 20, 10)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "player20", page[0].Label)
	assert.Equal(t, "player22", page[2].Label)

	// Past the end is empty, not an error.
	page, err = s.Ladder().Slice(ctx, 30, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestStore_weaponsAndMaps(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	weapons, err := s.Weapons().Slice(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, weapons, 3)
	assert.Equal(t, "Rifle", weapons[0].Label)
	assert.Equal(t, "400 kills · 120 headshots", weapons[0].Detail)
	assert.Equal(t, "Knife", weapons[2].Label)

	maps, err := s.Maps().Slice(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, "de_dust2", maps[0].Label)
	assert.Equal(t, "90 rounds · 41.5 hours", maps[0].Detail)
}

func TestStore_filteredSlices(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	t.Run("weapon players", func(t *testing.T) {
		n, err := s.WeaponPlayers().CountFor(ctx, "Rifle")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		rows, err := s.WeaponPlayers().SliceFor(ctx, "Rifle", 0, 10)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "player00", rows[0].Label)
		assert.Equal(t, "80 kills with Rifle", rows[0].Detail)
	})

	t.Run("map players", func(t *testing.T) {
		rows, err := s.MapPlayers().SliceFor(ctx, "de_dust2", 0, 10)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "player01", rows[0].Label)
		assert.Equal(t, "50 rounds on de_dust2 · 30 wins", rows[0].Detail)
	})

	t.Run("unknown label is empty, not an error", func(t *testing.T) {
		n, err := s.WeaponPlayers().CountFor(ctx, "Crossbow")
		require.NoError(t, err)
		assert.Zero(t, n)

		rows, err := s.WeaponPlayers().SliceFor(ctx, "Crossbow", 0, 10)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestStore_player(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	d, err := s.Player(ctx, "player01")
	require.NoError(t, err)
	assert.Equal(t, "player01", d.Name)
	assert.Equal(t, 2200, d.Score)
	assert.Equal(t, 119, d.Kills)
	assert.Equal(t, 31, d.Deaths)
	assert.Equal(t, "Rifle", d.FavoriteWeapon)
	assert.Equal(t, "de_dust2", d.FavoriteMap)
	assert.Equal(t, 2026, d.LastSeen.Year())

	_, err = s.Player(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_suggest(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	// A near miss resolves to the closest known name.
	assert.Equal(t, "Rifle", s.Suggest(ctx, ScopeWeapons, "Riffle"))
	assert.Equal(t, "de_dust2", s.Suggest(ctx, ScopeMaps, "dedust2"))
	assert.Equal(t, "player07", s.Suggest(ctx, ScopePlayers, "player7"))

	// Nothing within edit distance: no suggestion.
	assert.Empty(t, s.Suggest(ctx, ScopeWeapons, "Plasma Railgun Mk II"))
}
