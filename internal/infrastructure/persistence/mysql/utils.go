package mysql

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL error numbers
const (
	errNoReferencedRow = 1452 // Cannot add or update a child row: a foreign key constraint fails
)

// isForeignKeyError reports whether err is a failed foreign key check on insert.
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == errNoReferencedRow
	}
	return false
}

// likePattern wraps s for a substring LIKE, escaping the wildcards it contains.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
