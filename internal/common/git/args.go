package git

import (
	"fmt"
	"strings"
)

// Args is an argument list that BuildArgs knows how to render.
// Use Raw for free-form text and Flags for an ordered key/value list.
type Args interface {
	render() string
}

// Raw is a free-form argument string, passed through whitespace collapsing.
type Raw string

func (r Raw) render() string {
	return string(r)
}

// Flag is a single entry of a Flags list.
// Value may be a string, a bool or nil.
type Flag struct {
	Key   string
	Value any
}

// Flags is an ordered flag list. Entries render in slice order:
//
//	--long  -> "--long" or "--long=value"
//	-s      -> "-s" or "-s value"
//	other   -> "value" (positional, key discarded)
//
// An empty string, nil or true renders the bare key; false drops the entry.
// Values are not quoted: the runner splits on whitespace, so "-m fix bug"
// becomes three words. Quote such values with shellquote.Join first.
type Flags []Flag

// F is shorthand for building a Flag.
func F(key string, value any) Flag {
	return Flag{Key: key, Value: value}
}

func (f Flags) render() string {
	built := make([]string, 0, len(f))
	for _, flag := range f {
		value, keep := flagValue(flag.Value)
		if !keep {
			continue
		}

		switch {
		case strings.HasPrefix(flag.Key, "--"):
			if value == "" {
				built = append(built, flag.Key)
			} else {
				built = append(built, flag.Key+"="+value)
			}
		case strings.HasPrefix(flag.Key, "-"):
			if value == "" {
				built = append(built, flag.Key)
			} else {
				built = append(built, flag.Key+" "+value)
			}
		default:
			built = append(built, value)
		}
	}
	return strings.Join(built, " ")
}

// flagValue converts a flag value to its rendered text.
// The second result is false when the entry must be omitted.
func flagValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case bool:
		return "", val
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprint(val), true
	}
}

// BuildArgs renders args into a single whitespace-clean argument string.
// A nil Args renders as the empty string.
func BuildArgs(args Args) string {
	if args == nil {
		return ""
	}
	return Squish(args.render())
}

// Squish collapses every run of whitespace into a single space and trims both ends.
func Squish(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
