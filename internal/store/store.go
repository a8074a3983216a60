// Package store persists VPC records as flat files.
//
// Each VPC gets one file in the store directory, named <vpc>.conf and
// holding line-oriented KEY=VALUE pairs. Subnet-scoped keys are
// prefixed with SUBNET_<name>_. The record files are the only source
// of truth for what logically exists; live OS objects are derived
// state.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound indicates a record that does not exist.
var ErrNotFound = errors.New("record not found")

const recordExt = ".conf"

// Store reads and writes VPC records under a single directory.
// Concurrent writers to the same record are not supported.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created lazily
// on the first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) recordPath(vpc string) string {
	return filepath.Join(s.dir, vpc+recordExt)
}

// Exists reports whether a record for the VPC exists.
func (s *Store) Exists(vpc string) bool {
	info, err := os.Stat(s.recordPath(vpc))
	return err == nil && !info.IsDir()
}

// Put writes one key for a VPC record. An existing key has its value
// replaced in place; a new key is appended. Each call is a separate
// durable write (write-to-temp then rename).
func (s *Store) Put(vpc, key, value string) error {
	lines := s.readLines(vpc)

	replaced := false
	prefix := key + "="
	for i, line := range lines {
		if strings.HasPrefix(line, prefix) {
			lines[i] = key + "=" + value
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, key+"="+value)
	}

	return s.writeLines(vpc, lines)
}

// Get returns the value for a key in a VPC record. A missing record or
// missing key reports ok=false, never an error; callers decide whether
// absence means "use default" or "not configured".
func (s *Store) Get(vpc, key string) (string, bool) {
	prefix := key + "="
	for _, line := range s.readLines(vpc) {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix), true
		}
	}
	return "", false
}

// Unset removes a key from a VPC record. Removing an absent key is a
// no-op.
func (s *Store) Unset(vpc, key string) error {
	lines := s.readLines(vpc)
	kept := lines[:0]
	prefix := key + "="
	for _, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return nil
	}
	return s.writeLines(vpc, kept)
}

// UnsetPrefix removes every key sharing a prefix from a VPC record.
// Used to drop all SUBNET_<name>_ keys when a subnet goes away.
func (s *Store) UnsetPrefix(vpc, prefix string) error {
	lines := s.readLines(vpc)
	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return nil
	}
	return s.writeLines(vpc, kept)
}

// Delete removes a VPC record entirely.
func (s *Store) Delete(vpc string) error {
	err := os.Remove(s.recordPath(vpc))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// List returns the names of all VPC records, sorted. A missing store
// directory means no VPCs exist yet.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), recordExt))
	}
	sort.Strings(names)
	return names, nil
}

// readLines returns the record's lines, or nil when the record is
// missing or unreadable.
func (s *Store) readLines(vpc string) []string {
	data, err := os.ReadFile(s.recordPath(vpc))
	if err != nil {
		return nil
	}
	raw := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	lines := raw[:0]
	for _, line := range raw {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// writeLines writes a record atomically: temp file in the same
// directory, then rename over the destination.
func (s *Store) writeLines(vpc string, lines []string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	path := s.recordPath(vpc)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to commit record: %w", err)
	}
	return nil
}
