package cli

import (
	"errors"
	"reflect"

	"github.com/alecthomas/kong"

	"go.hackfix.me/yipt/xtime"
)

// DurationMapper parses durations with the extended units of xtime.
type DurationMapper struct{}

var _ kong.Mapper = DurationMapper{}

// Decode implements the kong.Mapper interface.
func (DurationMapper) Decode(kctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	err := kctx.Scan.PopValueInto("duration", &value)
	if err != nil {
		return err
	}

	dur, err := xtime.ParseDuration(value)
	if err != nil {
		return err
	}
	if dur < 0 {
		return errors.New("duration must not be negative")
	}

	target.SetInt(int64(dur))

	return nil
}
