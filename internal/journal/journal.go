package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/aether/internal/state"
)

// SchemaVersion is the current journal schema version.
const SchemaVersion = 1

// ErrJournalClosed is returned when operations are attempted on a closed journal.
var ErrJournalClosed = errors.New("journal is closed")

// Journal defines the interface for apply history storage.
type Journal interface {
	// Load reads all events from storage, oldest first.
	Load() ([]ApplyEvent, error)

	// Append adds an event to storage.
	Append(e ApplyEvent) error

	// Rewrite replaces the entire storage file (used after prune).
	Rewrite(es []ApplyEvent) error

	// Clear removes all stored events.
	Clear() error

	// Close releases file handles and resources.
	Close() error
}

// schemaHeader is the first line of the JSONL file.
type schemaHeader struct {
	AetherSchemaVersion int   `json:"aether_schema_version"`
	CreatedAt           int64 `json:"created_at"`
}

// DefaultPath returns the journal location in the aether data directory.
func DefaultPath() (string, error) {
	dataDir, err := state.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "journal.jsonl"), nil
}

// JSONLJournal implements Journal using a JSONL file with a schema header.
type JSONLJournal struct {
	mu     sync.RWMutex
	path   string
	file   *os.File
	closed bool
}

// NewJSONLJournal opens (or creates) the journal file at path.
func NewJSONLJournal(path string) (*JSONLJournal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	j := &JSONLJournal{path: path, file: file}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := j.writeHeader(); err != nil {
			file.Close()
			return nil, err
		}
	}

	return j, nil
}

// writeHeader writes the schema version header to the file.
func (j *JSONLJournal) writeHeader() error {
	header := schemaHeader{
		AetherSchemaVersion: SchemaVersion,
		CreatedAt:           time.Now().Unix(),
	}

	data, err := json.Marshal(header)
	if err != nil {
		return err
	}

	_, err = j.file.Write(append(data, '\n'))
	return err
}

// Load reads all events from storage, oldest first.
func (j *JSONLJournal) Load() ([]ApplyEvent, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed || j.file == nil {
		return nil, ErrJournalClosed
	}

	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", j.path, err)
	}

	var events []ApplyEvent
	scanner := bufio.NewScanner(j.file)

	const maxLineSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if lineNum == 1 {
			var header schemaHeader
			if err := json.Unmarshal(line, &header); err == nil && header.AetherSchemaVersion > 0 {
				if header.AetherSchemaVersion > SchemaVersion {
					return nil, fmt.Errorf("unsupported schema version %d (max: %d)",
						header.AetherSchemaVersion, SchemaVersion)
				}
				continue
			}
			// Headerless journals fall through and parse as an event
		}

		var e ApplyEvent
		if err := json.Unmarshal(line, &e); err != nil {
			// Skip malformed lines
			continue
		}
		if e.ID != "" {
			events = append(events, e)
		}
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading file: %w", err)
	}

	if _, err := j.file.Seek(0, io.SeekEnd); err != nil {
		return events, err
	}
	return events, nil
}

// Append adds an event to storage.
func (j *JSONLJournal) Append(e ApplyEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed || j.file == nil {
		return ErrJournalClosed
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	if _, err := j.file.Write(append(data, '\n')); err != nil {
		return err
	}
	return j.file.Sync()
}

// Rewrite replaces the entire storage file (used after prune).
func (j *JSONLJournal) Rewrite(es []ApplyEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrJournalClosed
	}

	if j.file != nil {
		if err := j.file.Close(); err != nil {
			return err
		}
		j.file = nil
	}

	backupPath := j.path + ".bak"
	if err := os.Rename(j.path, backupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	file, err := os.OpenFile(j.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		os.Rename(backupPath, j.path)
		return fmt.Errorf("failed to create new file: %w", err)
	}
	j.file = file

	if err := j.writeHeader(); err != nil {
		return err
	}

	for _, e := range es {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := j.file.Write(append(data, '\n')); err != nil {
			return err
		}
	}

	if err := j.file.Sync(); err != nil {
		return err
	}

	os.Remove(backupPath)
	return nil
}

// Clear removes all stored events.
func (j *JSONLJournal) Clear() error {
	return j.Rewrite(nil)
}

// Close releases file handles and resources.
func (j *JSONLJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true

	if j.file != nil {
		err := j.file.Close()
		j.file = nil
		return err
	}
	return nil
}
