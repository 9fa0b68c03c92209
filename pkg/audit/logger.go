package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sasha-s/go-deadlock"

	"github.com/newtron-network/netconsole/pkg/util"
)

// Logger stores and queries audit events.
type Logger interface {
	Log(event *Event) error
	Query(filter Filter) ([]*Event, error)
	Close() error
}

// RotationConfig configures audit log rotation.
type RotationConfig struct {
	MaxSize    int64 // rotate once the file reaches this many bytes; 0 disables
	MaxBackups int   // rotated files to keep; 0 keeps all
}

// FileLogger appends events as JSON lines to a file.
type FileLogger struct {
	path     string
	rotation RotationConfig

	mu   deadlock.RWMutex
	file *os.File
	enc  *json.Encoder
}

// NewFileLogger opens (or creates) the audit log at path, creating its
// directory if needed.
func NewFileLogger(path string, rotation RotationConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating audit log directory: %w", err)
	}
	l := &FileLogger{path: path, rotation: rotation}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *FileLogger) open() error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	l.file = f
	l.enc = json.NewEncoder(f)
	return nil
}

// Path returns the active log file.
func (l *FileLogger) Path() string {
	return l.path
}

// Log appends event, rotating the file first when it has grown past
// MaxSize.
func (l *FileLogger) Log(event *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return errors.New("audit log is closed")
	}
	if l.rotation.MaxSize > 0 {
		if info, err := l.file.Stat(); err == nil && info.Size() >= l.rotation.MaxSize {
			if err := l.rotate(); err != nil {
				return fmt.Errorf("rotating audit log: %w", err)
			}
		}
	}
	return l.enc.Encode(event)
}

// Query returns the events of the active file that match filter, oldest
// first. Malformed lines are skipped.
func (l *FileLogger) Query(filter Filter) ([]*Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []*Event{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	events := []*Event{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		if len(strings.TrimSpace(sc.Text())) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			util.Warnf("audit: skipping malformed entry at %s:%d: %v", l.path, line, err)
			continue
		}
		if filter.matches(&e) {
			events = append(events, &e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return filter.apply(events), nil
}

// Close closes the log file. Further Log calls fail.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// rotate renames the active file to <path>.<timestamp> and starts a new
// one. Called with l.mu held.
func (l *FileLogger) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}
	rotated := l.path + "." + time.Now().Format("20060102-150405.000000000")
	if err := os.Rename(l.path, rotated); err != nil {
		return err
	}
	if err := l.open(); err != nil {
		return err
	}
	if l.rotation.MaxBackups > 0 {
		l.prune()
	}
	return nil
}

// Backups returns the rotated files, oldest first.
func (l *FileLogger) Backups() ([]string, error) {
	matches, err := filepath.Glob(l.path + ".*")
	if err != nil {
		return nil, err
	}
	// The timestamp suffix sorts chronologically.
	sort.Strings(matches)
	return matches, nil
}

func (l *FileLogger) prune() {
	backups, err := l.Backups()
	if err != nil {
		return
	}
	for len(backups) > l.rotation.MaxBackups {
		if err := os.Remove(backups[0]); err != nil {
			util.Warnf("audit: removing old log %s: %v", backups[0], err)
		}
		backups = backups[1:]
	}
}

// loggerHolder wraps a Logger so atomic.Value always stores the same
// concrete type.
type loggerHolder struct {
	logger Logger
}

var defaultLogger atomic.Value

// SetDefaultLogger sets the logger used by the package-level Log and Query.
// nil disables auditing.
func SetDefaultLogger(logger Logger) {
	defaultLogger.Store(loggerHolder{logger: logger})
}

// DefaultLogger returns the configured logger, or nil.
func DefaultLogger() Logger {
	v := defaultLogger.Load()
	if v == nil {
		return nil
	}
	return v.(loggerHolder).logger
}

// Log records event with the default logger. It is a no-op when none is set.
func Log(event *Event) error {
	l := DefaultLogger()
	if l == nil {
		return nil
	}
	return l.Log(event)
}

// Query reads events from the default logger.
func Query(filter Filter) ([]*Event, error) {
	l := DefaultLogger()
	if l == nil {
		return []*Event{}, nil
	}
	return l.Query(filter)
}
