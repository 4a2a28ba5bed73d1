package links

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultType is the link type used when a request names none, or one we don't know.
const DefaultType = "website"

// ErrNoDefault is returned by New when the default type has no entry.
var ErrNoDefault = errors.New("links: default entry missing")

// Entry is a resolved link.
type Entry struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Directory maps a link type token to a business URL.
// Lookups are case-insensitive and always resolve to some URL.
// A Directory is read-only after construction and safe for concurrent use.
type Directory struct {
	entries  map[string]string
	fallback string
}

// New builds a Directory. defaultType must be present in entries; an empty
// defaultType means DefaultType.
func New(entries map[string]string, defaultType string) (*Directory, error) {
	d := &Directory{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		k = normalizeType(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			return nil, fmt.Errorf("links: empty type or url for %q", k)
		}
		d.entries[k] = v
	}

	d.fallback = normalizeType(defaultType)
	if d.fallback == "" {
		d.fallback = DefaultType
	}
	if _, ok := d.entries[d.fallback]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoDefault, d.fallback)
	}
	return d, nil
}

// Default returns the built-in Photo Illusions link table.
func Default() *Directory {
	d, err := New(BuiltinEntries(), DefaultType)
	if err != nil {
		panic(err)
	}
	return d
}

// BuiltinEntries returns a copy of the built-in table.
func BuiltinEntries() map[string]string {
	return map[string]string{
		"contract": "https://www.photoillusions.us/contract",
		"payment":  "https://dashboard.stripe.com/acct_1AN9bKKAiHY3duEM/payments",
		"website":  "https://www.photoillusions.us",
		"gallery":  "https://www.photoillusions.us/gallery",
		"booking":  "https://www.cognitoforms.com/photoillusions1/photoillusionseventregistration",
		"form":     "https://www.photoillusions.us/general-form",
	}
}

// Resolve returns the entry for t, or the default entry when t is empty or
// unknown. This is the only place the default is applied.
func (d *Directory) Resolve(t string) Entry {
	key := normalizeType(t)
	if url, ok := d.entries[key]; ok {
		return Entry{Type: key, URL: url}
	}
	return Entry{Type: d.fallback, URL: d.entries[d.fallback]}
}

// Known reports whether t names an entry.
func (d *Directory) Known(t string) bool {
	_, ok := d.entries[normalizeType(t)]
	return ok
}

// Types lists every link type, sorted.
func (d *Directory) Types() []string {
	out := make([]string, 0, len(d.entries))
	for k := range d.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func normalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
