package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PlayerRow represents a player record in the database
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	Guest     bool
	CreatedAt time.Time
}

// RunRow is one finished mission in a pilot's history
type RunRow struct {
	ID         int64        `json:"id"`
	MissionID  string       `json:"mission_id"`
	Stars      int          `json:"stars"`
	Outcome    game.Outcome `json:"outcome"`
	Cause      string       `json:"cause"`
	Payout     int          `json:"payout"`
	Penalty    int          `json:"penalty"`
	Elapsed    float64      `json:"elapsed"`
	Destroyed  int          `json:"destroyed"`
	HullDamage float64      `json:"hull_damage"`
	CreatedAt  time.Time    `json:"created_at"`
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	Delivered int    `json:"delivered"`
	Earned    int    `json:"earned"`
	Destroyed int    `json:"destroyed"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		conn.SetMaxOpenConns(1)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		is_guest INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS progression (
		player_id INTEGER PRIMARY KEY REFERENCES players(id),
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id INTEGER NOT NULL REFERENCES players(id),
		mission_id TEXT NOT NULL,
		stars INTEGER NOT NULL DEFAULT 1,
		outcome TEXT NOT NULL,
		cause TEXT NOT NULL DEFAULT '',
		payout INTEGER NOT NULL DEFAULT 0,
		penalty INTEGER NOT NULL DEFAULT 0,
		elapsed REAL NOT NULL DEFAULT 0,
		destroyed INTEGER NOT NULL DEFAULT 0,
		hull_damage REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS achievements (
		player_id INTEGER NOT NULL REFERENCES players(id),
		achievement_id TEXT NOT NULL,
		unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (player_id, achievement_id)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player_id INTEGER,
		session_id TEXT,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player_id);
	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type, created_at);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		logger.Log.WithError(err).Error("db migration failed")
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// CreatePlayer creates a new account and returns its ID
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CreateGuest creates a guest player (no password)
func (db *DB) CreateGuest(username string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, is_guest) VALUES (?, 1)",
		username,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (db *DB) getPlayer(where string, arg interface{}) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, is_guest, created_at FROM players WHERE "+where+" = ?",
		arg,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.Guest, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetPlayerByUsername returns a player by username, nil if absent
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	return db.getPlayer("username", username)
}

// GetPlayerByID returns a player by ID, nil if absent
func (db *DB) GetPlayerByID(id int64) (*PlayerRow, error) {
	return db.getPlayer("id", id)
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// LoadProgression returns the stored record, nil when the player has none yet
func (db *DB) LoadProgression(playerID int64) ([]byte, error) {
	var data string
	err := db.conn.QueryRow("SELECT data FROM progression WHERE player_id = ?", playerID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// SaveProgression upserts the player's record
func (db *DB) SaveProgression(playerID int64, data []byte) error {
	_, err := db.conn.Exec(`
		INSERT INTO progression (player_id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(player_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		playerID, string(data),
	)
	return err
}

// RecordRun stores a finished mission and returns its ID
func (db *DB) RecordRun(playerID int64, res *game.Result) (int64, error) {
	r, err := db.conn.Exec(`
		INSERT INTO runs (player_id, mission_id, stars, outcome, cause, payout, penalty, elapsed, destroyed, hull_damage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		playerID, res.MissionID, res.Stars, string(res.Outcome), res.Cause,
		res.Payout, res.Penalty, res.Elapsed, res.Destroyed, res.HullDamage,
	)
	if err != nil {
		return 0, err
	}
	return r.LastInsertId()
}

// RunHistory returns the player's most recent runs, newest first
func (db *DB) RunHistory(playerID int64, limit int) ([]RunRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, mission_id, stars, outcome, cause, payout, penalty, elapsed, destroyed, hull_damage, created_at
		FROM runs WHERE player_id = ?
		ORDER BY id DESC
		LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RunRow
	for rows.Next() {
		var r RunRow
		var outcome string
		if err := rows.Scan(&r.ID, &r.MissionID, &r.Stars, &outcome, &r.Cause, &r.Payout, &r.Penalty,
			&r.Elapsed, &r.Destroyed, &r.HullDamage, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Outcome = game.Outcome(outcome)
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetLeaderboard ranks registered pilots by money earned on deliveries
func (db *DB) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	rows, err := db.conn.Query(`
		SELECT p.username, COUNT(*), COALESCE(SUM(r.payout), 0), COALESCE(SUM(r.destroyed), 0)
		FROM runs r JOIN players p ON p.id = r.player_id
		WHERE p.is_guest = 0 AND r.outcome = ?
		GROUP BY r.player_id
		ORDER BY 3 DESC LIMIT ?`,
		string(game.OutcomeSuccess), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Delivered, &e.Earned, &e.Destroyed); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetAchievements returns the IDs a player has unlocked
func (db *DB) GetAchievements(playerID int64) ([]string, error) {
	rows, err := db.conn.Query(
		"SELECT achievement_id FROM achievements WHERE player_id = ? ORDER BY unlocked_at, achievement_id",
		playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UnlockAchievement records an achievement; false when it was already held
func (db *DB) UnlockAchievement(playerID int64, id string) (bool, error) {
	res, err := db.conn.Exec(
		"INSERT OR IGNORE INTO achievements (player_id, achievement_id) VALUES (?, ?)",
		playerID, id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetSetting returns a stored setting or "" when unset
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil && err != sql.ErrNoRows {
		logger.Log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("read setting")
	}
	return v
}

// SetSetting upserts a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
