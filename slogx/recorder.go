package slogx

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// Entry is a record captured by a [Recorder], with attributes flattened to "group.key" form.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type recorderStore struct {
	mux     sync.Mutex
	entries []Entry
}

var _ slog.Handler = (*Recorder)(nil)

// Recorder is a [slog.Handler] that keeps records in memory, which is mostly useful to make assertions about logging in tests.
// Handlers derived with WithAttrs or WithGroup share storage with the Recorder they came from.
type Recorder struct {
	level slog.Leveler
	store *recorderStore
	group string
	attrs []slog.Attr
}

// NewRecorder creates a [Recorder] that keeps records at or above level.
func NewRecorder(level slog.Leveler) *Recorder {
	if level == nil {
		level = LevelTrace
	}
	return &Recorder{
		level: level,
		store: new(recorderStore),
	}
}

func (r *Recorder) prefix() string {
	if len(r.group) == 0 {
		return ""
	}
	return r.group + "."
}

func (r *Recorder) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.level.Level()
}

func (r *Recorder) Handle(_ context.Context, record slog.Record) error {
	entry := Entry{
		Level:   record.Level,
		Message: record.Message,
		Attrs:   map[string]any{},
	}
	for _, attr := range r.attrs {
		entry.Attrs[attr.Key] = attr.Value.Resolve().Any()
	}
	prefix := r.prefix()
	record.Attrs(func(attr slog.Attr) bool {
		entry.Attrs[prefix+attr.Key] = attr.Value.Resolve().Any()
		return true
	})
	r.store.mux.Lock()
	defer r.store.mux.Unlock()
	r.store.entries = append(r.store.entries, entry)
	return nil
}

func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return r
	}
	cp := *r
	cp.attrs = slices.Clone(r.attrs)
	prefix := r.prefix()
	for _, attr := range attrs {
		attr.Key = prefix + attr.Key
		cp.attrs = append(cp.attrs, attr)
	}
	return &cp
}

func (r *Recorder) WithGroup(name string) slog.Handler {
	if len(name) == 0 {
		return r
	}
	cp := *r
	cp.group = r.prefix() + name
	return &cp
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.store.mux.Lock()
	defer r.store.mux.Unlock()
	return slices.Clone(r.store.entries)
}

// Messages returns recorded messages at or above the given level.
func (r *Recorder) Messages(min slog.Level) []string {
	var msgs []string
	for _, entry := range r.Entries() {
		if entry.Level >= min {
			msgs = append(msgs, entry.Message)
		}
	}
	return msgs
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.store.mux.Lock()
	defer r.store.mux.Unlock()
	r.store.entries = nil
}
