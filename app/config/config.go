// Package config loads policy documents.
package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/yipt/policy"
)

// StdinPath is the source path that selects standard input.
const StdinPath = "-"

// Config is a policy document loaded from a file, or from standard input.
type Config struct {
	Policy *policy.Document

	fs    vfs.FileSystem
	stdin io.Reader
	path  string
}

// NewConfig creates a new Config instance that reads the policy at path from
// the filesystem, or from stdin if path is StdinPath.
func NewConfig(fs vfs.FileSystem, stdin io.Reader, path string) *Config {
	return &Config{fs: fs, stdin: stdin, path: path}
}

// Load reads and parses the policy. Unlike an application configuration, a
// missing policy file is an error.
func (c *Config) Load() error {
	var (
		data []byte
		err  error
	)
	if c.path == StdinPath {
		if c.stdin == nil {
			return errors.New("no standard input to read the policy from")
		}
		data, err = io.ReadAll(c.stdin)
	} else {
		data, err = vfs.ReadFile(c.fs, c.path)
	}
	if err != nil {
		return fmt.Errorf("failed reading policy file: %w", err)
	}

	doc, err := policy.Parse(data)
	if err != nil {
		return err
	}
	c.Policy = doc

	return nil
}

// Path returns the source the policy is read from.
func (c *Config) Path() string {
	return c.path
}
