package app

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/yipt/firewall/mock"
)

const testHost = "fw01"

type testApp struct {
	*App
	fs             vfs.FileSystem
	loader         *mock.Mock
	stdout, stderr *safeBuffer
}

// newTestApp returns an application that reads from an in-memory filesystem
// and stdin, and records rule-sets with a mock loader instead of loading them.
func newTestApp(ctx context.Context, stdin string) (*testApp, error) {
	var (
		fs     = memoryfs.New()
		loader = mock.New()
		stdout = newSafeBuffer()
		stderr = newSafeBuffer()
	)

	opts := []Option{
		WithContext(ctx),
		WithFDs(strings.NewReader(stdin), stdout, stderr),
		WithFS(fs),
		WithLoader(loader),
		WithHostname(func() (string, error) { return testHost, nil }),
		WithLogger(false, false),
	}
	app, err := New("yipt", opts...)
	if err != nil {
		return nil, err
	}

	return &testApp{
		App: app, fs: fs, loader: loader, stdout: stdout, stderr: stderr,
	}, nil
}

func (ta *testApp) Run(args ...string) error {
	return ta.App.Run(args)
}

func (ta *testApp) writeFile(path, data string) error {
	return vfs.WriteFile(ta.fs, path, []byte(data), 0o644)
}

// safeBuffer is a thread-safe buffer.
type safeBuffer struct {
	mx  sync.RWMutex
	buf *bytes.Buffer
}

var _ io.Writer = (*safeBuffer)(nil)

func newSafeBuffer() *safeBuffer {
	return &safeBuffer{buf: &bytes.Buffer{}}
}

func (b *safeBuffer) Write(p []byte) (n int, err error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mx.RLock()
	defer b.mx.RUnlock()
	return b.buf.String()
}
