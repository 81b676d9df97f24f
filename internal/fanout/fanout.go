// Package fanout applies the distribution policy over an ordered receiver
// list: one message with CC, or one independent message per receiver.
package fanout

import (
	"encoding/json"
	"strings"

	"github.com/signpost-app/signpost/internal/apperr"
)

// ReceiverEntry is one row of the ordered receiver list. Order matters:
// in single mode the first active entry is the primary recipient.
type ReceiverEntry struct {
	Email   string `json:"email"`
	Enabled bool   `json:"enabled"`
}

// Mode selects the distribution policy. Only meaningful with at least two
// active receivers; otherwise the modes behave identically.
type Mode string

const (
	// ModeSingle sends one message to the first active receiver, the rest
	// as CC.
	ModeSingle Mode = "single"
	// ModeMultiple sends one independent message per active receiver.
	ModeMultiple Mode = "multiple"
)

// Config is the decoded receiver configuration stored in settings.
type Config struct {
	Entries []ReceiverEntry
	Mode    Mode
}

// ParseConfig decodes the stored receiver configuration. Three historical
// shapes exist and are tried in order:
//
//  1. {"entries": [...], "multiSendMode": "..."} — current
//  2. [{"email": ..., "enabled": ...}, ...]      — legacy array
//  3. a single plain email string                 — oldest legacy
//
// This is a migration shim; it goes away once all stored settings carry
// shape 1.
func ParseConfig(raw string) Config {
	var obj struct {
		Entries       []ReceiverEntry `json:"entries"`
		MultiSendMode Mode            `json:"multiSendMode"`
	}
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && obj.Entries != nil {
		return Config{Entries: obj.Entries, Mode: normalizeMode(obj.MultiSendMode)}
	}

	var arr []ReceiverEntry
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		return Config{Entries: arr, Mode: ModeMultiple}
	}

	if strings.TrimSpace(raw) != "" {
		return Config{
			Entries: []ReceiverEntry{{Email: raw, Enabled: true}},
			Mode:    ModeMultiple,
		}
	}

	return Config{Mode: ModeMultiple}
}

func normalizeMode(m Mode) Mode {
	if m == ModeSingle {
		return ModeSingle
	}
	return ModeMultiple
}

// Active filters to enabled entries with a non-blank address, preserving
// order.
func Active(entries []ReceiverEntry) []string {
	var out []string
	for _, e := range entries {
		if e.Enabled && strings.TrimSpace(e.Email) != "" {
			out = append(out, e.Email)
		}
	}
	return out
}

// SendFunc is the send primitive the policy fans out over.
type SendFunc func(to string, cc []string) error

// Dispatch applies the policy. Sends run sequentially in list order; the
// first failure aborts the batch, so earlier sends in multiple mode may
// already have been delivered.
func Dispatch(entries []ReceiverEntry, mode Mode, send SendFunc) error {
	active := Active(entries)
	if len(active) == 0 {
		return apperr.Config("no receivers")
	}

	if mode == ModeSingle && len(active) > 1 {
		return send(active[0], active[1:])
	}

	for _, to := range active {
		if err := send(to, nil); err != nil {
			return err
		}
	}
	return nil
}
