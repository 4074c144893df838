package git

import (
	"strings"
	"testing"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genFlag generates a flag with a long, short or positional key and a
// string, bool or nil value
func genFlag() gopter.Gen {
	return gopter.CombineGens(
		gen.OneGenOf(
			gen.RegexMatch(`^--[a-z][a-z-]{0,10}$`),
			gen.RegexMatch(`^-[a-zA-Z]$`),
			gen.RegexMatch(`^[a-z]{1,6}$`),
		),
		gen.IntRange(0, 3),
		gen.RegexMatch(`^[a-zA-Z0-9_./:]{1,12}$`),
	).Map(func(values []interface{}) Flag {
		key := values[0].(string)
		switch values[1].(int) {
		case 0:
			return F(key, values[2].(string))
		case 1:
			return F(key, true)
		case 2:
			return F(key, false)
		default:
			return F(key, nil)
		}
	})
}

// expectedTokens is what one flag must contribute to the rendered string
func expectedTokens(f Flag) []string {
	value, _ := f.Value.(string)
	if b, ok := f.Value.(bool); ok && !b {
		return nil
	}

	switch {
	case strings.HasPrefix(f.Key, "--"):
		if value == "" {
			return []string{f.Key}
		}
		return []string{f.Key + "=" + value}
	case strings.HasPrefix(f.Key, "-"):
		if value == "" {
			return []string{f.Key}
		}
		return []string{f.Key, value}
	default:
		if value == "" {
			return nil
		}
		return []string{value}
	}
}

func TestFlagsRenderingProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("tokens follow the key form of every flag in order", prop.ForAll(
		func(flags []Flag) bool {
			var want []string
			for _, f := range flags {
				want = append(want, expectedTokens(f)...)
			}

			rendered := BuildArgs(Flags(flags))
			got := strings.Fields(rendered)
			if strings.Join(got, " ") != rendered {
				t.Logf("rendered string is not whitespace-clean: %q", rendered)
				return false
			}
			return strings.Join(got, "\x00") == strings.Join(want, "\x00")
		},
		gen.SliceOf(genFlag()),
	))

	properties.Property("raw arguments are whitespace-collapsed", prop.ForAll(
		func(words []string, pad int) bool {
			sep := strings.Repeat(" \t", pad+1)
			raw := sep + strings.Join(words, sep) + sep
			return BuildArgs(Raw(raw)) == strings.Join(words, " ")
		},
		gen.SliceOf(gen.RegexMatch(`^[a-z0-9-]{1,8}$`)),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		args Args
		want string
	}{
		{"nil", nil, ""},
		{"raw", Raw("  --oneline \n -n   5 "), "--oneline -n 5"},
		{"long with value", Flags{F("--format", "%H")}, "--format=%H"},
		{"long bare", Flags{F("--all", nil)}, "--all"},
		{"long true", Flags{F("--force", true)}, "--force"},
		{"false dropped", Flags{F("--force", false), F("-v", nil)}, "-v"},
		{"short with value", Flags{F("-m", "fix")}, "-m fix"},
		{"positional", Flags{F("ref", "HEAD~1"), F("path", "src/")}, "HEAD~1 src/"},
		{"stringer", Flags{F("--since", 90 * time.Minute)}, "--since=1h30m0s"},
		{"number", Flags{F("-n", 5)}, "-n 5"},
		{"order kept", Flags{F("-b", "x"), F("--a", "y"), F("z", "w")}, "-b x --a=y w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildArgs(tt.args); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestFlagValuesAreNotQuoted tests that values are rendered verbatim, so a
// value with spaces must be quoted by the caller to stay one argument
func TestFlagValuesAreNotQuoted(t *testing.T) {
	plain := BuildArgs(Flags{F("-m", "fix bug")})
	if plain != "-m fix bug" {
		t.Fatalf("expected verbatim value, got %q", plain)
	}
	words, err := shellquote.Split(plain)
	if err != nil || len(words) != 3 {
		t.Errorf("expected unquoted value to split into 3 words, got %q, %v", words, err)
	}

	quoted := BuildArgs(Flags{F("-m", shellquote.Join("fix bug"))})
	words, err = shellquote.Split(quoted)
	if err != nil || len(words) != 2 || words[1] != "fix bug" {
		t.Errorf("expected quoted value to stay one word, got %q, %v", words, err)
	}
}

func TestSquish(t *testing.T) {
	if got := Squish("\t a  b\n\nc  "); got != "a b c" {
		t.Errorf("expected %q, got %q", "a b c", got)
	}
	if got := Squish("   "); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
