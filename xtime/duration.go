// Package xtime extends time.ParseDuration with day and week units.
package xtime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var extUnitRx = regexp.MustCompile(`(\d+(?:\.\d+)?)([dw])`)

// ParseDuration parses a duration string as time.ParseDuration does, also
// accepting the units "d" (24h) and "w" (7d), e.g. "1d12h" or "-1.5w".
func ParseDuration(s string) (time.Duration, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "+-")

	var (
		ext    time.Duration
		extErr error
	)
	rest := extUnitRx.ReplaceAllStringFunc(s, func(m string) string {
		sub := extUnitRx.FindStringSubmatch(m)
		n, err := strconv.ParseFloat(sub[1], 64)
		if err != nil {
			extErr = err
			return ""
		}
		unit := day
		if sub[2] == "w" {
			unit = week
		}
		ext += time.Duration(n * float64(unit))
		return ""
	})
	if extErr != nil {
		return 0, fmt.Errorf("invalid duration '%s': %w", orig, extErr)
	}

	var dur time.Duration
	if rest != "" {
		var err error
		if dur, err = time.ParseDuration(rest); err != nil {
			return 0, fmt.Errorf("invalid duration '%s'", orig)
		}
	}

	dur += ext
	if neg {
		dur = -dur
	}

	return dur, nil
}
