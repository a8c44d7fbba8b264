package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrPropertyNotFound  = errors.New("property not found")
	ErrMessageNotFound   = errors.New("message not found")
	ErrDuplicateFavorite = errors.New("property already saved")
)

const mysqlDuplicateEntry = 1062

// isDuplicateKeyError reports whether err is a unique constraint violation
// raised by either supported driver.
func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
