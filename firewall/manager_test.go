package firewall_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/yipt/firewall"
	"go.hackfix.me/yipt/firewall/mock"
	"go.hackfix.me/yipt/firewall/types"
	"go.hackfix.me/yipt/policy"
)

const testPolicy = `
filter:
  input:
    default: drop
    rules:
      - in-interface: lo
      - src: 192.168.1.0/24
        protocol: tcp
        dport: 22
`

const testRules = "*filter\n" +
	"-P INPUT DROP\n" +
	"-A INPUT -i lo -j ACCEPT\n" +
	"-A INPUT -s 192.168.1.0/24 -p tcp --dport 22 -j ACCEPT\n" +
	"COMMIT\n"

func TestNewManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		loader types.Loader
		expErr string
	}{
		{
			name:   "ok/valid",
			loader: mock.New(),
		},
		{
			name:   "err/nil_loader",
			loader: nil,
			expErr: "loader implementation is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			manager, err := firewall.NewManager(tt.loader)

			if tt.expErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expErr)
				assert.Nil(t, manager)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, manager)
			}
		})
	}

	t.Run("ok/custom_logger", func(t *testing.T) {
		t.Parallel()
		clogger := slog.New(slog.DiscardHandler)
		manager, err := firewall.NewManager(mock.New(), firewall.WithLogger(clogger))
		require.NoError(t, err)
		assert.NotNil(t, manager)
	})
}

func TestManager_Verify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		policy     string
		setupError bool
		expErr     error
		expErrStr  string
	}{
		{
			name:   "ok/valid",
			policy: testPolicy,
		},
		{
			name:      "err/compile",
			policy:    "filter:\n  input:\n    rules:\n      - action: missing\n",
			expErr:    policy.ErrUnresolvedJumpTarget,
			expErrStr: "failed compiling policy: unresolved jump target 'missing'",
		},
		{
			name:       "err/loader_fails",
			policy:     testPolicy,
			setupError: true,
			expErrStr:  "failed verifying rules: loader error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader := mock.New()
			manager, err := firewall.NewManager(
				loader, firewall.WithLogger(slog.New(slog.DiscardHandler)),
			)
			require.NoError(t, err)

			if tt.setupError {
				loader.SetFailError(errors.New("loader error"))
			}

			doc, err := policy.Parse([]byte(tt.policy))
			require.NoError(t, err)

			rules, err := manager.Verify(t.Context(), doc)
			if tt.expErrStr != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.expErrStr)
				if tt.expErr != nil {
					assert.ErrorIs(t, err, tt.expErr)
				}
				assert.Empty(t, loader.Committed())
				return
			}
			require.NoError(t, err)

			assert.Equal(t, testRules, rules)
			assert.Equal(t, []string{testRules}, loader.Tested())
			assert.Empty(t, loader.Committed())
		})
	}
}

func TestManager_Apply(t *testing.T) {
	t.Parallel()

	doc, err := policy.Parse([]byte(testPolicy))
	require.NoError(t, err)

	t.Run("ok/tests_then_commits", func(t *testing.T) {
		t.Parallel()

		loader := mock.New()
		manager, err := firewall.NewManager(loader, firewall.WithLogger(slog.New(slog.DiscardHandler)))
		require.NoError(t, err)

		require.NoError(t, manager.Apply(t.Context(), doc))
		assert.Equal(t, []string{testRules}, loader.Tested())
		assert.Equal(t, []string{testRules}, loader.Committed())
	})

	t.Run("err/loader_fails", func(t *testing.T) {
		t.Parallel()

		loader := mock.New()
		loader.SetFailError(errors.New("loader error"))
		manager, err := firewall.NewManager(loader, firewall.WithLogger(slog.New(slog.DiscardHandler)))
		require.NoError(t, err)

		err = manager.Apply(t.Context(), doc)
		require.Error(t, err)
		assert.ErrorContains(t, err, "loader error")
		assert.Empty(t, loader.Committed())
	})
}

func TestManager_CompileAddressChecks(t *testing.T) {
	t.Parallel()

	src := `
filter:
  input:
    rules:
      - src: 10.0.0.1,10.0.0.0/8
      - src: "! 192.168.0.0/16"
      - src: gateway.lan
      - match: iprange
        src-range: 10.0.0.1-10.0.0.9
      - dst: 10.0.0.300
`
	doc, err := policy.Parse([]byte(src))
	require.NoError(t, err)

	t.Run("ok/enabled", func(t *testing.T) {
		t.Parallel()

		var logBuf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logBuf, nil))
		manager, err := firewall.NewManager(mock.New(), firewall.WithLogger(logger))
		require.NoError(t, err)

		_, err = manager.Compile(doc)
		require.NoError(t, err)

		logs := logBuf.String()
		assert.Contains(t, logs, "value=gateway.lan")
		assert.Contains(t, logs, "value=10.0.0.300")
		assert.Contains(t, logs, "rule=3")
		assert.Contains(t, logs, "rule=5")
		assert.NotContains(t, logs, "rule=1 ")
		assert.NotContains(t, logs, "rule=2 ")
		assert.NotContains(t, logs, "rule=4 ")
	})

	t.Run("ok/disabled", func(t *testing.T) {
		t.Parallel()

		var logBuf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logBuf, nil))
		manager, err := firewall.NewManager(mock.New(),
			firewall.WithLogger(logger), firewall.WithAddressChecks(false))
		require.NoError(t, err)

		_, err = manager.Compile(doc)
		require.NoError(t, err)
		assert.Empty(t, logBuf.String())
	})
}
