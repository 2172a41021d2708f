package pins

import "strings"

// AliasEntry binds one canonical pin to the names users may write for it.
type AliasEntry struct {
	Pin        Pin
	Capability Capability
	// Names are stored normalized: lowercase, with '_' and '-' removed.
	Names []string
}

// NewAlias builds an entry from a comma separated alias list, the form used
// by the firmware board tables ("bedtemp,tb,P0.23").
func NewAlias(pin Pin, capability Capability, names string) AliasEntry {
	var list []string
	for _, n := range strings.Split(names, ",") {
		if n = NormalizeAlias(n); n != "" {
			list = append(list, n)
		}
	}
	return AliasEntry{Pin: pin, Capability: capability, Names: list}
}

// NormalizeAlias lowercases name and strips separator characters.
func NormalizeAlias(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.TrimSpace(name) {
		switch r {
		case '_', '-':
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Matches reports whether the already-lowercased token is one of the names.
func (e AliasEntry) Matches(token string) bool {
	for _, n := range e.Names {
		if n == token {
			return true
		}
	}
	return false
}

// AliasTable is the per-board pin name table. Tables are small and scanned
// linearly; the first entry carrying a matching alias wins.
type AliasTable struct {
	entries []AliasEntry
}

// NewAliasTable returns a table over entries in the given order.
func NewAliasTable(entries ...AliasEntry) *AliasTable {
	return &AliasTable{entries: entries}
}

// Entries returns the table entries in lookup order.
func (t *AliasTable) Entries() []AliasEntry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Len returns the number of entries.
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup finds the first entry with an alias equal to token. The token is
// compared as given; callers lowercase it first.
func (t *AliasTable) Lookup(token string) (AliasEntry, bool) {
	if t == nil {
		return AliasEntry{}, false
	}
	for _, e := range t.entries {
		if e.Matches(token) {
			return e, true
		}
	}
	return AliasEntry{}, false
}
