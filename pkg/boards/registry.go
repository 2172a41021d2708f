package boards

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Registry maps board names to board definitions.
type Registry struct {
	// mu protects the registry state.
	mu sync.RWMutex

	// boards maps the lowercased board name to its definition.
	boards map[string]*Board

	validate *validator.Validate
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		boards:   make(map[string]*Board),
		validate: validator.New(),
	}
}

// Builtin returns a registry holding every compiled-in board.
func Builtin() *Registry {
	r := NewRegistry()
	for _, b := range builtinBoards() {
		if err := r.Register(b); err != nil {
			panic(fmt.Sprintf("builtin board %s: %v", b.Name, err))
		}
	}
	return r
}

// Register adds a board. Names are unique regardless of case.
func (r *Registry) Register(b *Board) error {
	if b == nil {
		return fmt.Errorf("board is nil")
	}
	if err := r.validate.Struct(b); err != nil {
		return fmt.Errorf("invalid board %q: %w", b.Name, err)
	}
	if err := b.validateDefaults(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(b.Name)
	if _, exists := r.boards[k]; exists {
		return fmt.Errorf("board %s already registered", b.Name)
	}
	r.boards[k] = b
	return nil
}

// Lookup finds a board by case-insensitive name.
func (r *Registry) Lookup(name string) (*Board, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.boards[key(name)]
	return b, ok
}

// Generic returns the generic board, which is always present in Builtin
// registries. Registries built by hand get an empty generic board.
func (r *Registry) Generic() *Board {
	if b, ok := r.Lookup(GenericName); ok {
		return b
	}
	return genericBoard()
}

// Names returns the registered board names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.boards))
	for _, b := range r.boards {
		names = append(names, b.Name)
	}
	sort.Strings(names)
	return names
}

// Boards returns every registered board ordered by name.
func (r *Registry) Boards() []*Board {
	names := r.Names()
	out := make([]*Board, 0, len(names))
	for _, n := range names {
		if b, ok := r.Lookup(n); ok {
			out = append(out, b)
		}
	}
	return out
}
