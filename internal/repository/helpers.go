package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// placeholders returns "?,?,?" with n markers for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// idArgs widens a slice of ids into driver arguments.
func idArgs(ids []uint64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (errno 1062), optionally on the named key.  Matching on the message
// keeps the check driver-agnostic enough for the mocked tests.
func isDuplicateKey(err error, key string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") && !strings.Contains(msg, "duplicate entry") {
		return false
	}
	return key == "" || strings.Contains(msg, strings.ToLower(key))
}

// isForeignKeyViolation reports whether err is a MySQL FK failure
// (errno 1452), meaning a referenced row does not exist.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1452") || strings.Contains(msg, "foreign key constraint")
}

// prefixColumns qualifies a comma-separated column list with a table
// alias, e.g. prefixColumns("f", "id, title") -> "f.id, f.title".
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

// likeEscaper neutralizes LIKE metacharacters so user keywords match as
// literal substrings.  MySQL's default escape character is backslash.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// rowExists runs a SELECT 1 probe against the given table and id.
func rowExists(ctx context.Context, db *sql.DB, table string, id uint64) (bool, error) {
	q := fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? LIMIT 1", table)
	var one int
	err := db.QueryRowContext(ctx, q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// validationErrorf wraps ErrValidation with a caller-facing message.
func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
