package boardconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/openfroyo/boardcfg/pkg/pins"
)

// Entry binds a configuration key to a typed destination owned by the caller.
// Entries are built with the typed constructors (Pin, PinArray, Bool, ...);
// the destination is written only through the entry's slot.
type Entry struct {
	// Key is matched case-insensitively against board.txt keys.
	Key string `validate:"required,printascii,excludesall=={"`

	// Kind is the value type.
	Kind Kind `validate:"lte=6"`

	// Capacity is the number of values an array entry accepts. Zero means
	// the entry is scalar.
	Capacity int `validate:"gte=0"`

	slot slot
}

// slot is the typed accessor behind an entry.
type slot interface {
	// set decodes a scalar token into the destination.
	set(tok string, r pins.Resolver) error
	// values returns the current destination value(s) rendered for output.
	values() []string
}

// IsArray reports whether the entry takes a {...} value.
func (e *Entry) IsArray() bool {
	return e.Capacity > 0
}

// Decode applies a scalar token to the destination. Invalid tokens leave the
// destination unchanged, except for Bool where any token is a valid false.
func (e *Entry) Decode(tok string, r pins.Resolver) error {
	if e.IsArray() {
		return ErrShapeMismatch
	}
	return e.slot.set(tok, r)
}

// StorePins writes resolved pins to the first len(values) slots of an array
// destination.
func (e *Entry) StorePins(values []pins.Pin) error {
	s, ok := e.slot.(*pinArraySlot)
	if !ok {
		return ErrShapeMismatch
	}
	if len(values) > e.Capacity {
		return ErrArrayOverflow
	}
	copy(s.dst, values)
	return nil
}

// Values returns the current destination contents as display strings.
func (e *Entry) Values() []string {
	return e.slot.values()
}

// Pin binds a scalar pin.
func Pin(key string, dst *pins.Pin) Entry {
	return Entry{Key: key, Kind: KindPin, slot: &pinSlot{dst: dst}}
}

// PinArray binds an array of pins whose capacity is len(dst).
func PinArray(key string, dst []pins.Pin) Entry {
	return PinArrayN(key, dst, len(dst))
}

// PinArrayN binds an array of pins accepting at most capacity values.
func PinArrayN(key string, dst []pins.Pin, capacity int) Entry {
	return Entry{Key: key, Kind: KindPin, Capacity: capacity, slot: &pinArraySlot{dst: dst}}
}

// Bool binds a boolean.
func Bool(key string, dst *bool) Entry {
	return Entry{Key: key, Kind: KindBool, slot: &boolSlot{dst: dst}}
}

// Uint8 binds an 8-bit unsigned value.
func Uint8(key string, dst *uint8) Entry {
	return Entry{Key: key, Kind: KindUint8, slot: &uint8Slot{dst: dst}}
}

// Uint16 binds a 16-bit unsigned value.
func Uint16(key string, dst *uint16) Entry {
	return Entry{Key: key, Kind: KindUint16, slot: &uint16Slot{dst: dst}}
}

// Uint32 binds a 32-bit unsigned value.
func Uint32(key string, dst *uint32) Entry {
	return Entry{Key: key, Kind: KindUint32, slot: &uint32Slot{dst: dst}}
}

// Float binds a float.
func Float(key string, dst *float32) Entry {
	return Entry{Key: key, Kind: KindFloat, slot: &floatSlot{dst: dst}}
}

// String binds a bounded string. capacity counts a terminator, so the longest
// accepted value is capacity-1 bytes.
func String(key string, dst *string, capacity int) Entry {
	return Entry{Key: key, Kind: KindString, slot: &stringSlot{dst: dst, capacity: capacity}}
}

type pinSlot struct{ dst *pins.Pin }

func (s *pinSlot) set(tok string, r pins.Resolver) error {
	if tok == "" {
		return ErrEmptyValue
	}
	p, ok := resolve(r, tok)
	if !ok {
		return ErrPinNotFound
	}
	*s.dst = p
	return nil
}

func (s *pinSlot) values() []string { return []string{s.dst.String()} }

type pinArraySlot struct{ dst []pins.Pin }

func (s *pinArraySlot) set(string, pins.Resolver) error { return ErrShapeMismatch }

func (s *pinArraySlot) values() []string {
	out := make([]string, len(s.dst))
	for i, p := range s.dst {
		out[i] = p.String()
	}
	return out
}

type boolSlot struct{ dst *bool }

func (s *boolSlot) set(tok string, _ pins.Resolver) error {
	*s.dst = ParseBool(tok)
	return nil
}

func (s *boolSlot) values() []string { return []string{FormatBool(*s.dst)} }

type uint8Slot struct{ dst *uint8 }

func (s *uint8Slot) set(tok string, _ pins.Resolver) error {
	v, err := ParseUint8(tok)
	if err != nil {
		return err
	}
	*s.dst = v
	return nil
}

func (s *uint8Slot) values() []string { return []string{fmt.Sprint(*s.dst)} }

type uint16Slot struct{ dst *uint16 }

func (s *uint16Slot) set(tok string, _ pins.Resolver) error {
	v, err := ParseUint16(tok)
	if err != nil {
		return err
	}
	*s.dst = v
	return nil
}

func (s *uint16Slot) values() []string { return []string{fmt.Sprint(*s.dst)} }

type uint32Slot struct{ dst *uint32 }

func (s *uint32Slot) set(tok string, _ pins.Resolver) error {
	v, err := ParseUint32(tok)
	if err != nil {
		return err
	}
	*s.dst = v
	return nil
}

func (s *uint32Slot) values() []string { return []string{fmt.Sprint(*s.dst)} }

type floatSlot struct{ dst *float32 }

func (s *floatSlot) set(tok string, _ pins.Resolver) error {
	v, err := ParseFloat(tok)
	if err != nil {
		return err
	}
	*s.dst = v
	return nil
}

func (s *floatSlot) values() []string { return []string{FormatFloat(*s.dst)} }

type stringSlot struct {
	dst      *string
	capacity int
}

func (s *stringSlot) set(tok string, _ pins.Resolver) error {
	if tok == "" {
		return ErrEmptyValue
	}
	if len(tok)+1 > s.capacity {
		return ErrStringTooLong
	}
	*s.dst = tok
	return nil
}

func (s *stringSlot) values() []string { return []string{*s.dst} }

func resolve(r pins.Resolver, tok string) (pins.Pin, bool) {
	if r == nil {
		return pins.Literals.Resolve(strings.ToLower(tok))
	}
	return r.Resolve(tok)
}

// Table is an ordered set of entries. When two entries share a key only the
// first is reachable.
type Table struct {
	entries []Entry
}

var entryValidator = validator.New()

// NewTable validates entries and returns them as a table.
func NewTable(entries ...Entry) (*Table, error) {
	var errs []error
	for i := range entries {
		if err := checkEntry(&entries[i]); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%q): %w", i, entries[i].Key, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Table{entries: entries}, nil
}

// MustTable is like NewTable but panics on an invalid entry. It is meant for
// tables declared in code.
func MustTable(entries ...Entry) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

func checkEntry(e *Entry) error {
	if err := entryValidator.Struct(e); err != nil {
		return err
	}
	if strings.ContainsAny(e.Key, " \t") {
		return fmt.Errorf("key contains whitespace")
	}
	if e.IsArray() && e.Kind != KindPin {
		return fmt.Errorf("arrays of %s are not supported", e.Kind)
	}
	if e.slot == nil {
		return fmt.Errorf("entry has no destination")
	}
	if e.IsArray() {
		s, ok := e.slot.(*pinArraySlot)
		if !ok {
			return fmt.Errorf("scalar destination with capacity %d", e.Capacity)
		}
		if s.dst == nil || e.Capacity > len(s.dst) {
			return fmt.Errorf("capacity %d exceeds destination length %d", e.Capacity, len(s.dst))
		}
		return nil
	}
	if _, ok := e.slot.(*pinArraySlot); ok {
		return fmt.Errorf("array destination with zero capacity")
	}
	if !slotHasDestination(e.slot) {
		return fmt.Errorf("entry has no destination")
	}
	if s, ok := e.slot.(*stringSlot); ok && s.capacity < 2 {
		return fmt.Errorf("string capacity %d too small", s.capacity)
	}
	return nil
}

func slotHasDestination(s slot) bool {
	switch v := s.(type) {
	case *pinSlot:
		return v.dst != nil
	case *boolSlot:
		return v.dst != nil
	case *uint8Slot:
		return v.dst != nil
	case *uint16Slot:
		return v.dst != nil
	case *uint32Slot:
		return v.dst != nil
	case *floatSlot:
		return v.dst != nil
	case *stringSlot:
		return v.dst != nil
	}
	return false
}

// Lookup returns the first entry whose key equals key, ignoring case.
func (t *Table) Lookup(key string) (*Entry, bool) {
	for i := range t.entries {
		if strings.EqualFold(t.entries[i].Key, key) {
			return &t.entries[i], true
		}
	}
	return nil, false
}

// Entries returns the table in declaration order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// MaxCapacity returns the largest array capacity in the table.
func (t *Table) MaxCapacity() int {
	max := 0
	for _, e := range t.entries {
		if e.Capacity > max {
			max = e.Capacity
		}
	}
	return max
}

// Duplicates lists keys that appear more than once, ignoring case. Only the
// first occurrence of each is reachable by Lookup.
func (t *Table) Duplicates() []string {
	seen := make(map[string]bool, len(t.entries))
	var dups []string
	for _, e := range t.entries {
		k := strings.ToLower(e.Key)
		if seen[k] {
			dups = append(dups, e.Key)
			continue
		}
		seen[k] = true
	}
	return dups
}
