package storage

import "strings"

// New picks a backend for target: a postgres:// URL or key=value DSN, a .json
// file, or a SQLite file.
func New(target string) Provider {
	switch {
	case IsPostgresURL(target) || isPostgresDSN(target):
		return NewPostgresStore(target)
	case strings.HasSuffix(strings.ToLower(target), ".json"):
		return NewJSONStore(target)
	default:
		return NewSQLiteStore(target)
	}
}

func isPostgresDSN(target string) bool {
	return strings.Contains(target, "host=") && strings.Contains(target, " ")
}
