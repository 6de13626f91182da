package types

import "context"

// Loader feeds a compiled rule-set to the firewall rule-loading facility.
type Loader interface {
	// Test checks the rule-set with the loading facility, without applying it.
	Test(ctx context.Context, rules string) error

	// Commit atomically replaces the active rule-set with the given one.
	Commit(ctx context.Context, rules string) error
}
