package dql

import (
	"regexp"
	"strings"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// checkIdent validates a name that will be written into SQL text verbatim.
func checkIdent(kind, name string) error {
	if !identPattern.MatchString(name) {
		return &IdentifierError{Kind: kind, Value: name}
	}
	return nil
}

// checkColumn is checkIdent that also admits the * wildcard.
func checkColumn(name string) error {
	if name == "*" {
		return nil
	}
	return checkIdent("column", name)
}

// defaultAlias is the first letter of the table name.
func defaultAlias(table string) string {
	if table == "" {
		return ""
	}
	return table[:1]
}

// aliasPrefix builds the deterministic part of a synthetic alias: the initials
// of an underscore separated name, or its first two letters.
func aliasPrefix(table string) string {
	parts := strings.Split(table, "_")
	if len(parts) > 1 {
		var b strings.Builder
		for _, p := range parts {
			if p != "" {
				b.WriteByte(p[0])
			}
		}
		return strings.ToLower(b.String())
	}
	if len(table) < 2 {
		return strings.ToLower(table)
	}
	return strings.ToLower(table[:2])
}
