package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/k7sle/tmv71d/pkg/kenwood"
	_ "github.com/mattn/go-sqlite3"
)

// ChannelStore keeps codeplug backups: point-in-time snapshots of the
// radio's memory channels, with SQLite backend.
type ChannelStore struct {
	db         *sql.DB
	dbPath     string
	maxBackups int
}

// BackupInfo describes one stored snapshot.
type BackupInfo struct {
	ID           int64     `json:"id"`
	Label        string    `json:"label"`
	CreatedAt    time.Time `json:"created_at"`
	ChannelCount int       `json:"channel_count"`
}

// NewChannelStore creates a new channel store with SQLite backend
func NewChannelStore(dbPath string, maxBackups int) (*ChannelStore, error) {
	store := &ChannelStore{
		dbPath:     dbPath,
		maxBackups: maxBackups,
	}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize channel store: %w", err)
	}

	return store, nil
}

// initialize sets up the database connection and creates tables
func (cs *ChannelStore) initialize() error {
	// Handle empty database path
	if cs.dbPath == "" {
		cs.dbPath = "./tmv71d.db"
	}

	// Create database directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(cs.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Build connection string properly with query parameters
	connectionString := cs.dbPath + "?_busy_timeout=10000&_journal_mode=WAL&_foreign_keys=on"

	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	cs.db = db

	if err := cs.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("Channel store initialized: %s (max %d backups)", cs.dbPath, cs.maxBackups)
	return nil
}

// createTables creates the database schema
func (cs *ChannelStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS backups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS backup_channels (
		backup_id INTEGER NOT NULL,
		channel INTEGER NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		record TEXT NOT NULL,
		PRIMARY KEY (backup_id, channel),
		FOREIGN KEY (backup_id) REFERENCES backups(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_backups_created_at ON backups(created_at DESC);
	`

	_, err := cs.db.Exec(schema)
	return err
}

// SaveBackup stores a snapshot of channel records and returns its ID. The
// records are kept in wire form, so a restore pushes back exactly what was
// read.
func (cs *ChannelStore) SaveBackup(label string, channels []kenwood.Channel) (int64, error) {
	tx, err := cs.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("INSERT INTO backups (label) VALUES (?)", label)
	if err != nil {
		return 0, fmt.Errorf("failed to insert backup: %w", err)
	}
	backupID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get backup ID: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO backup_channels (backup_id, channel, name, record)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, ch := range channels {
		if _, err := stmt.Exec(backupID, ch.Channel, ch.Name, ch.MemoryEntry.Encode()); err != nil {
			return 0, fmt.Errorf("failed to insert channel %d: %w", ch.Channel, err)
		}
	}

	if err := cs.cleanupOldBackups(tx); err != nil {
		log.Printf("Warning: failed to cleanup old backups: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return backupID, nil
}

// ListBackups returns stored snapshots, newest first.
func (cs *ChannelStore) ListBackups() ([]BackupInfo, error) {
	rows, err := cs.db.Query(`
		SELECT b.id, b.label, b.created_at, COUNT(c.channel)
		FROM backups b
		LEFT JOIN backup_channels c ON c.backup_id = b.id
		GROUP BY b.id
		ORDER BY b.created_at DESC, b.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query backups: %w", err)
	}
	defer rows.Close()

	var backups []BackupInfo
	for rows.Next() {
		var info BackupInfo
		if err := rows.Scan(&info.ID, &info.Label, &info.CreatedAt, &info.ChannelCount); err != nil {
			return nil, fmt.Errorf("failed to scan backup: %w", err)
		}
		backups = append(backups, info)
	}
	return backups, rows.Err()
}

// LoadBackup returns the channel records of one snapshot, in channel order.
func (cs *ChannelStore) LoadBackup(id int64) ([]kenwood.Channel, error) {
	rows, err := cs.db.Query(`
		SELECT name, record FROM backup_channels
		WHERE backup_id = ?
		ORDER BY channel ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query backup %d: %w", id, err)
	}
	defer rows.Close()

	var channels []kenwood.Channel
	for rows.Next() {
		var name, record string
		if err := rows.Scan(&name, &record); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		entry, err := kenwood.DecodeMemoryEntry(record)
		if err != nil {
			return nil, fmt.Errorf("corrupt record in backup %d: %w", id, err)
		}
		channels = append(channels, kenwood.Channel{MemoryEntry: entry, Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("backup %d not found", id)
	}
	return channels, nil
}

// DeleteBackup removes one snapshot.
func (cs *ChannelStore) DeleteBackup(id int64) error {
	result, err := cs.db.Exec("DELETE FROM backups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete backup %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("backup %d not found", id)
	}
	return nil
}

// cleanupOldBackups removes snapshots beyond the maximum limit
func (cs *ChannelStore) cleanupOldBackups(tx *sql.Tx) error {
	if cs.maxBackups <= 0 {
		return nil // No limit
	}

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM backups").Scan(&count); err != nil {
		return err
	}
	if count <= cs.maxBackups {
		return nil // Within limit
	}

	query := `
		DELETE FROM backups
		WHERE id IN (
			SELECT id FROM backups
			ORDER BY created_at ASC, id ASC
			LIMIT ?
		)
	`
	_, err := tx.Exec(query, count-cs.maxBackups)
	return err
}

// Close closes the database connection
func (cs *ChannelStore) Close() error {
	if cs.db != nil {
		return cs.db.Close()
	}
	return nil
}
