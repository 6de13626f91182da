package policy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableIsBuiltin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		table, chain string
		exp          bool
	}{
		{"filter", "input", true},
		{"filter", "FORWARD", true},
		{"filter", "prerouting", false},
		{"nat", "prerouting", true},
		{"nat", "input", false},
		{"mangle", "postrouting", true},
		{"raw", "output", true},
		{"unknown", "input", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.table, tt.chain), func(t *testing.T) {
			t.Parallel()
			tbl := &Table{Name: tt.table}
			assert.Equal(t, tt.exp, tbl.IsBuiltin(tt.chain))
		})
	}
}

func TestIsTarget(t *testing.T) {
	t.Parallel()

	for _, a := range []string{"accept", "DROP", "Reject", "return", "masquerade", "LOG"} {
		assert.True(t, IsTarget(a), a)
	}
	for _, a := range []string{"foo", "input", "accepted", ""} {
		assert.False(t, IsTarget(a), a)
	}
	assert.True(t, IsVerdict("reject"))
	assert.False(t, IsVerdict("return"))
}

func TestBuiltinChainsIsACopy(t *testing.T) {
	t.Parallel()

	chains := BuiltinChains("filter")
	chains[0] = "MODIFIED"
	assert.Equal(t, []string{"INPUT", "OUTPUT", "FORWARD"}, BuiltinChains("filter"))
	assert.Empty(t, BuiltinChains("unknown"))
}

func TestError(t *testing.T) {
	t.Parallel()

	err := UnresolvedJumpTarget("filter", "input", 7, "nonexistent")
	assert.Equal(t,
		"unresolved jump target 'nonexistent' (table: filter, chain: input, rule: 7)",
		err.Error())
	assert.Equal(t, []any{
		"kind", "unresolved jump target", "table", "filter", "chain", "input",
		"rule", 7, "target", "nonexistent",
	}, err.Fields())

	wrapped := fmt.Errorf("failed compiling: %w", err)
	assert.True(t, errors.Is(wrapped, ErrUnresolvedJumpTarget))
	assert.False(t, errors.Is(wrapped, ErrInvalidDefaultPolicyTarget))

	err = InvalidDefaultPolicyTarget("filter", "custom")
	assert.Equal(t, "default policy declared on custom chain 'custom' (table: filter, chain: custom)", err.Error())

	assert.Equal(t, "duplicate chain", (&Error{Kind: KindDuplicateChain}).Error())
	assert.Equal(t, "unknown error kind 42", ErrorKind(42).String())
}
