package db

import "strings"

// LikeEscape is the ESCAPE clause paired with ContainsPattern.
const LikeEscape = `ESCAPE '\'`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern lowercases term and wraps it for a case-insensitive
// substring LIKE, escaping the LIKE wildcards it contains.
func ContainsPattern(term string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(term)) + "%"
}
