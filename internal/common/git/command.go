package git

import (
	"strings"
	"unicode"
)

// DefaultTool is the executable placed at the head of every command line.
const DefaultTool = "git"

// Allowlist holds the configured subcommands of one command family.
type Allowlist struct {
	Subcommands []string
	Prefixes    []string
}

// Command is a fully validated git invocation.
// Only NewCommand builds one, so a Command never carries an unvalidated subcommand.
type Command struct {
	Tool       string
	Family     string
	Subcommand string
	Args       string
}

// NewCommand normalizes family, validates subcommand against allow and renders args.
// An empty subcommand skips validation; a non-empty one must be allowed.
func NewCommand(tool, family, subcommand string, args Args, allow Allowlist) (*Command, error) {
	if tool == "" {
		tool = DefaultTool
	}

	cmd := &Command{
		Tool:   tool,
		Family: Family(family),
		Args:   BuildArgs(args),
	}

	if sub := Squish(subcommand); sub != "" {
		accepted, err := ValidateSubcommand(cmd.Family, sub, allow.Subcommands, allow.Prefixes)
		if err != nil {
			return nil, err
		}
		cmd.Subcommand = accepted
	}

	return cmd, nil
}

// String renders "<tool> <family>[ <subcommand>] <args>" with collapsed whitespace.
func (c *Command) String() string {
	return Squish(strings.Join([]string{c.Tool, c.Family, c.Subcommand, c.Args}, " "))
}

// Family normalizes a command family name to git's kebab-case form:
// "cherryPick", "cherry pick" and "cherry-pick" all become "cherry-pick".
func Family(name string) string {
	name = Squish(name)

	var b strings.Builder
	prevLower := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r) || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteRune('-')
			}
			prevLower = false
			continue
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
			continue
		}
		b.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return b.String()
}
