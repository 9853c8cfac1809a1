package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains builds an ILIKE pattern matching s anywhere, with LIKE
// metacharacters in s escaped.
func contains(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}
