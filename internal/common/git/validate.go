package git

// ExpandSubcommands returns the effective allow-list for a family.
// With prefixes, every prefix is joined with every subcommand ("--quiet add");
// without, the list is returned as-is.
func ExpandSubcommands(allowed, prefixes []string) []string {
	if len(prefixes) == 0 {
		return allowed
	}

	expanded := make([]string, 0, len(prefixes)*len(allowed))
	for _, prefix := range prefixes {
		for _, sub := range allowed {
			expanded = append(expanded, Squish(prefix+" "+sub))
		}
	}
	return expanded
}

// ValidateSubcommand checks subcommand against the family's allow-list and returns
// the accepted entry exactly as configured. The comparison is exact and
// case-sensitive after whitespace collapsing.
func ValidateSubcommand(family, subcommand string, allowed, prefixes []string) (string, error) {
	sub := Squish(subcommand)
	for _, candidate := range ExpandSubcommands(allowed, prefixes) {
		if candidate == sub {
			return candidate, nil
		}
	}
	return "", &InvalidSubcommandError{Family: family, Subcommand: sub}
}
