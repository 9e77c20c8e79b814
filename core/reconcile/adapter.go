package reconcile

import "context"

// Mutator applies a rename plan to the stores it manages. Implementations must rename
// every store or none of them.
type Mutator interface {
	// ApplyRenames moves each current key to its new key. All renames take effect
	// together, so chains and swaps are valid input.
	ApplyRenames(ctx context.Context, renames map[string]string) error
}

// MutatorFunc adapts a function to the Mutator interface.
type MutatorFunc func(ctx context.Context, renames map[string]string) error

// ApplyRenames calls f.
func (f MutatorFunc) ApplyRenames(ctx context.Context, renames map[string]string) error {
	return f(ctx, renames)
}
