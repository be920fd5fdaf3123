package leads

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupTimeFormat = "20060102-150405"

// BackupInfo describes one backup file.
type BackupInfo struct {
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"createdAt"`
	SizeBytes int64     `json:"sizeBytes"`
	LeadCount int       `json:"leadCount"`
}

func (s *Store) backupDir() string {
	return filepath.Join(s.dir, "backups_"+s.tenant)
}

func (s *Store) backupPrefix() string {
	return "backup_" + s.tenant + "_"
}

// Backup writes a timestamped copy of the current lead set.
func (s *Store) Backup() (*BackupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.backupDir(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup dir: %w", err)
	}

	data, err := json.MarshalIndent(s.leads, "", "  ")
	if err != nil {
		return nil, err
	}

	filename := s.backupPrefix() + time.Now().Format(backupTimeFormat) + ".json"
	path := filepath.Join(s.backupDir(), filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	s.log.Info().Str("backup", filename).Int("leads", len(s.leads)).Msg("Backup created")
	return &BackupInfo{
		Filename:  filename,
		CreatedAt: time.Now(),
		SizeBytes: int64(len(data)),
		LeadCount: len(s.leads),
	}, nil
}

// ListBackups returns this tenant's backups, newest first.
func (s *Store) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, err
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, s.backupPrefix()) || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Filename:  name,
			CreatedAt: info.ModTime(),
			SizeBytes: info.Size(),
			LeadCount: -1,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Restore replaces the current lead set with the contents of a backup.
// The filename must be one returned by ListBackups; path elements are
// rejected so a caller cannot read outside the backup directory.
func (s *Store) Restore(filename string) error {
	if filename != filepath.Base(filename) || !strings.HasPrefix(filename, s.backupPrefix()) {
		return fmt.Errorf("invalid backup filename: %q", filename)
	}

	data, err := os.ReadFile(filepath.Join(s.backupDir(), filename))
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	var restored []*Lead
	if err := json.Unmarshal(data, &restored); err != nil {
		return fmt.Errorf("backup file is corrupt: %w", err)
	}
	if restored == nil {
		restored = []*Lead{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.leads
	s.leads = restored
	if err := s.save(); err != nil {
		s.leads = previous
		return err
	}

	s.log.Info().Str("backup", filename).Int("leads", len(restored)).Msg("Backup restored")
	return nil
}
