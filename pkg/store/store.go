// Package store persists small named JSON values (warns and per-guild settings).
// Every backend implements Store; remote failures are swallowed and logged so a
// missing or unreachable backend behaves like an empty one.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Logical names of the stored values
const (
	NameWarns   = "warns"
	NameVoice   = "vocaux"
	NameLogs    = "logs"
	NameTickets = "tickets"
)

// Backend labels, used in logs and metrics
const (
	BackendChannel = "channel"
	BackendFile    = "file"
	BackendMongo   = "mongo"
	BackendRedis   = "redis"
)

// MaxValueSize is the largest encoding ChannelStore accepts, in characters.
// It matches the Discord message content limit.
const MaxValueSize = 2000

// ErrTooLarge is returned by ChannelStore.Save when the encoded value exceeds MaxValueSize
var ErrTooLarge = errors.New("store: encoded value exceeds 2000 characters")

// Store loads and saves named values.
//
// Load decodes the value stored under name into v. When nothing is stored, or the
// backend is unreachable, v is left untouched and nil is returned, so callers pass
// their default (usually an empty map).
//
// Save replaces the value stored under name. Last write wins.
type Store interface {
	Load(ctx context.Context, name string, v any) error
	Save(ctx context.Context, name string, v any) error
}

// Cached is implemented by backends that keep a read cache
type Cached interface {
	ClearCache()
}

func encode(name string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return data, nil
}

// ChannelName returns the text channel holding name in the database guild
func ChannelName(name string) string {
	switch name {
	case NameWarns:
		return "warns"
	case NameVoice:
		return "config-vocaux"
	case NameLogs:
		return "config-logs"
	case NameTickets:
		return "config-tickets"
	default:
		return strings.ToLower(name)
	}
}

// FileName returns the JSON file holding name in the data directory
func FileName(name string) string {
	switch name {
	case NameWarns:
		return "warns.json"
	case NameVoice:
		return "vocal_channel_config.json"
	case NameLogs:
		return "logs_config.json"
	case NameTickets:
		return "tickets_config.json"
	default:
		return strings.ToLower(name) + ".json"
	}
}
