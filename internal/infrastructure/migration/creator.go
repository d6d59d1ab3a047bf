package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const upHeader = "-- Migration: %s\n-- Created: %s\n\n"

const downHeader = "-- Migration: %s (rollback)\n-- Created: %s\n\n"

// FilePair is the up/down file pair of one migration
type FilePair struct {
	Version  string
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty timestamped up/down migration pair into
// migrationsDir, creating the directory if needed.
func CreateMigration(migrationsDir, name string) (*FilePair, error) {
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	baseName := fmt.Sprintf("%s_%s", version, sanitizeName(name))

	fp := &FilePair{
		Version:  version,
		UpPath:   filepath.Join(migrationsDir, baseName+".up.sql"),
		DownPath: filepath.Join(migrationsDir, baseName+".down.sql"),
	}

	created := now.Format(time.RFC3339)
	if err := os.WriteFile(fp.UpPath, []byte(fmt.Sprintf(upHeader, name, created)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := os.WriteFile(fp.DownPath, []byte(fmt.Sprintf(downHeader, name, created)), 0o644); err != nil {
		_ = os.Remove(fp.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}

	return fp, nil
}

// sanitizeName lowercases the name and collapses separators into single
// underscores so it is safe as a file name component
func sanitizeName(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
			lastUnderscore = false
		case c == ' ' || c == '-' || c == '_':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations returns the base names of the migrations found in
// migrationsDir, one entry per up/down pair
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, base)
		}
	}
	return migrations, nil
}
