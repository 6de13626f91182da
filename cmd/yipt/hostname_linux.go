package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// hostname returns the node name reported by the kernel, which is the host
// whose netfilter tables the rules were loaded into.
func hostname() (string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", fmt.Errorf("failed reading system name: %w", err)
	}
	return unix.ByteSliceToString(u.Nodename[:]), nil
}
