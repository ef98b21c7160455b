package tui

import (
	"strings"

	"github.com/nathoo/skirmish/console"
)

// History keeps recently entered commands, newest last, for up/down recall
// and tab completion.
type History struct {
	entries []string
	limit   int
	cursor  int // -1 while editing fresh input
}

// NewHistory creates a history holding at most limit commands.
func NewHistory(limit int) *History {
	return &History{
		entries: make([]string, 0, limit),
		limit:   limit,
		cursor:  -1,
	}
}

// Push records a command. Repeats of "again" are not recorded, and a
// command already in the history moves to the newest position.
func (h *History) Push(cmd string) {
	if console.Parse(cmd).Verb == "again" {
		return
	}
	for i, e := range h.entries {
		if e == cmd {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.limit {
		h.entries = h.entries[1:]
	}
}

// Prev steps to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps to a newer command. It reports false once past the newest,
// which returns the caller to fresh input.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// Complete returns the newest command starting with prefix.
func (h *History) Complete(prefix string) (string, bool) {
	if prefix == "" {
		return "", false
	}
	for i := len(h.entries) - 1; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i], prefix) && h.entries[i] != prefix {
			return h.entries[i], true
		}
	}
	return "", false
}

// ResetCursor leaves history navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
}
