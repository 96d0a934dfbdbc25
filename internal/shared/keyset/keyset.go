package keyset

import (
	"encoding/base64"
	"encoding/json"
)

// Package keyset implements opaque continuation cursors for keyset
// pagination. Callers fetch limit+1 rows ordered by their sort key, call Cut
// to detect whether more rows remain, and encode the boundary row's key as
// the next cursor. Cursors are only meaningful against the exact ordering
// that produced them.

// Encode serializes a cursor payload into an opaque URL-safe token.
func Encode(cursor any) string {
	raw, err := json.Marshal(cursor)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses an opaque token into the caller's cursor type. A forged or
// truncated token reports ok=false; callers treat that as "no rows strictly
// past this boundary" rather than restarting from the top.
func Decode[T any](token string) (T, bool) {
	var cursor T
	if token == "" {
		return cursor, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return cursor, false
	}
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return cursor, false
	}
	return cursor, true
}

// Cut trims a limit+1 fetch down to the page and reports whether a next page
// exists. The extra row is evidence only and never returned.
func Cut[T any](rows []T, limit int) ([]T, bool) {
	if limit > 0 && len(rows) > limit {
		return rows[:limit], true
	}
	return rows, false
}
