package webui

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// LogEntry is one captured log line for the UI log panel
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// LogBuffer is a thread-safe ring buffer of recent log entries. It implements
// io.Writer so it can sit behind zerolog via an io.MultiWriter.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	head    int
	count   int
}

// NewLogBuffer creates a log buffer holding up to size entries
func NewLogBuffer(size int) *LogBuffer {
	return &LogBuffer{
		entries: make([]LogEntry, size),
	}
}

// zerologLine is the subset of a zerolog JSON line the UI cares about
type zerologLine struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Write captures one log line. Lines that are not zerolog JSON are kept
// verbatim at info level.
func (b *LogBuffer) Write(p []byte) (int, error) {
	entry := LogEntry{Time: time.Now(), Level: "info"}

	var line zerologLine
	if err := json.Unmarshal(p, &line); err == nil {
		if line.Level != "" {
			entry.Level = line.Level
		}
		entry.Message = line.Message
	}
	if entry.Message == "" {
		entry.Message = strings.TrimSpace(string(p))
	}

	b.mu.Lock()
	b.entries[b.head] = entry
	b.head = (b.head + 1) % len(b.entries)
	if b.count < len(b.entries) {
		b.count++
	}
	b.mu.Unlock()

	return len(p), nil
}

// Entries returns all captured entries in chronological order
func (b *LogBuffer) Entries() []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]LogEntry, 0, b.count)
	start := 0
	if b.count == len(b.entries) {
		start = b.head
	}
	for i := 0; i < b.count; i++ {
		out = append(out, b.entries[(start+i)%len(b.entries)])
	}
	return out
}

// Recent returns the most recent n entries in chronological order
func (b *LogBuffer) Recent(n int) []LogEntry {
	entries := b.Entries()
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
