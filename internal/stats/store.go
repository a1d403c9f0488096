package stats

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"fragboard/internal/logging"
)

// Store reads the statistics database maintained by the game-server
// ingester. Everything here is a read-only projection; fragboard never
// writes match data.
type Store struct {
	db     *sql.DB
	logger logging.Interface
}

type StoreOptions struct {
	// Path to the sqlite database file.
	Path   string
	Logger logging.Interface
}

// Open opens or creates the statistics database at the given path.
func Open(opts StoreOptions) (*Store, error) {
	if dir := filepath.Dir(opts.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, logger: opts.Logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		name   TEXT PRIMARY KEY,
		score  INTEGER NOT NULL DEFAULT 0,
		kills  INTEGER NOT NULL DEFAULT 0,
		deaths INTEGER NOT NULL DEFAULT 0,
		accuracy        REAL NOT NULL DEFAULT 0,
		favorite_weapon TEXT NOT NULL DEFAULT '',
		favorite_map    TEXT NOT NULL DEFAULT '',
		last_seen       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS weapons (
		name      TEXT PRIMARY KEY,
		kills     INTEGER NOT NULL DEFAULT 0,
		headshots INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS maps (
		name   TEXT PRIMARY KEY,
		rounds INTEGER NOT NULL DEFAULT 0,
		hours  REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS weapon_kills (
		weapon TEXT NOT NULL,
		player TEXT NOT NULL,
		kills  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (weapon, player)
	);

	CREATE INDEX IF NOT EXISTS idx_weapon_kills_weapon ON weapon_kills(weapon);

	CREATE TABLE IF NOT EXISTS map_rounds (
		map    TEXT NOT NULL,
		player TEXT NOT NULL,
		rounds INTEGER NOT NULL DEFAULT 0,
		wins   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (map, player)
	);

	CREATE INDEX IF NOT EXISTS idx_map_rounds_map ON map_rounds(map);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Ladder pages players by score.
func (s *Store) Ladder() Slicer { return ladderSlicer{s} }

// Weapons pages weapons by kills.
func (s *Store) Weapons() Slicer { return weaponSlicer{s} }

// Maps pages maps by rounds played.
func (s *Store) Maps() Slicer { return mapSlicer{s} }

// WeaponPlayers pages the players behind a given weapon.
func (s *Store) WeaponPlayers() FilteredSlicer { return weaponPlayerSlicer{s} }

// MapPlayers pages the players behind a given map.
func (s *Store) MapPlayers() FilteredSlicer { return mapPlayerSlicer{s} }

type ladderSlicer struct{ s *Store }

func (l ladderSlicer) Slice(ctx context.Context, offset, limit int) ([]Row, error) {
	rows, err := l.s.db.QueryContext(ctx, `
		SELECT name, score, kills, deaths FROM players
		ORDER BY score DESC, name ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying ladder: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var name string
		var score, kills, deaths int
		if err := rows.Scan(&name, &score, &kills, &deaths); err != nil {
			return nil, err
		}
		out = append(out, Row{
			Label:  name,
			Detail: fmt.Sprintf("%d pts · %d kills · %d deaths", score, kills, deaths),
		})
	}
	return out, rows.Err()
}

func (l ladderSlicer) Count(ctx context.Context) (int, error) {
	return l.s.count(ctx, `SELECT count(*) FROM players`)
}

type weaponSlicer struct{ s *Store }

func (w weaponSlicer) Slice(ctx context.Context, offset, limit int) ([]Row, error) {
	rows, err := w.s.db.QueryContext(ctx, `
		SELECT name, kills, headshots FROM weapons
		ORDER BY kills DESC, name ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying weapons: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var name string
		var kills, headshots int
		if err := rows.Scan(&name, &kills, &headshots); err != nil {
			return nil, err
		}
		out = append(out, Row{
			Label:  name,
			Detail: fmt.Sprintf("%d kills · %d headshots", kills, headshots),
		})
	}
	return out, rows.Err()
}

func (w weaponSlicer) Count(ctx context.Context) (int, error) {
	return w.s.count(ctx, `SELECT count(*) FROM weapons`)
}

type mapSlicer struct{ s *Store }

func (m mapSlicer) Slice(ctx context.Context, offset, limit int) ([]Row, error) {
	rows, err := m.s.db.QueryContext(ctx, `
		SELECT name, rounds, hours FROM maps
		ORDER BY rounds DESC, name ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying maps: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var name string
		var rounds int
		var hours float64
		if err := rows.Scan(&name, &rounds, &hours); err != nil {
			return nil, err
		}
		out = append(out, Row{
			Label:  name,
			Detail: fmt.Sprintf("%d rounds · %.1f hours", rounds, hours),
		})
	}
	return out, rows.Err()
}

func (m mapSlicer) Count(ctx context.Context) (int, error) {
	return m.s.count(ctx, `SELECT count(*) FROM maps`)
}

type weaponPlayerSlicer struct{ s *Store }

func (w weaponPlayerSlicer) SliceFor(ctx context.Context, label string, offset, limit int) ([]Row, error) {
	rows, err := w.s.db.QueryContext(ctx, `
		SELECT player, kills FROM weapon_kills WHERE weapon = ?
		ORDER BY kills DESC, player ASC LIMIT ? OFFSET ?`, label, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying weapon players: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var player string
		var kills int
		if err := rows.Scan(&player, &kills); err != nil {
			return nil, err
		}
		out = append(out, Row{
			Label:  player,
			Detail: fmt.Sprintf("%d kills with %s", kills, label),
		})
	}
	return out, rows.Err()
}

func (w weaponPlayerSlicer) CountFor(ctx context.Context, label string) (int, error) {
	return w.s.count(ctx, `SELECT count(*) FROM weapon_kills WHERE weapon = ?`, label)
}

type mapPlayerSlicer struct{ s *Store }

func (m mapPlayerSlicer) SliceFor(ctx context.Context, label string, offset, limit int) ([]Row, error) {
	rows, err := m.s.db.QueryContext(ctx, `
		SELECT player, rounds, wins FROM map_rounds WHERE map = ?
		ORDER BY rounds DESC, player ASC LIMIT ? OFFSET ?`, label, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying map players: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var player string
		var rounds, wins int
		if err := rows.Scan(&player, &rounds, &wins); err != nil {
			return nil, err
		}
		out = append(out, Row{
			Label:  player,
			Detail: fmt.Sprintf("%d rounds on %s · %d wins", rounds, label, wins),
		})
	}
	return out, rows.Err()
}

func (m mapPlayerSlicer) CountFor(ctx context.Context, label string) (int, error) {
	return m.s.count(ctx, `SELECT count(*) FROM map_rounds WHERE map = ?`, label)
}

// Player retrieves the single-record profile projection. Returns ErrNotFound
// if the player is unknown.
func (s *Store) Player(ctx context.Context, name string) (PlayerDetail, error) {
	var d PlayerDetail
	err := s.db.QueryRowContext(ctx, `
		SELECT name, score, kills, deaths, accuracy, favorite_weapon, favorite_map, last_seen
		FROM players WHERE name = ?`, name).
		Scan(&d.Name, &d.Score, &d.Kills, &d.Deaths, &d.Accuracy, &d.FavoriteWeapon, &d.FavoriteMap, &d.LastSeen)
	if err == sql.ErrNoRows {
		return PlayerDetail{}, fmt.Errorf("%w: player %q", ErrNotFound, name)
	}
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("querying player %q: %w", name, err)
	}
	return d, nil
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}
