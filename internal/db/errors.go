package db

import (
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MySQL server error numbers the store cares about.
const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlLockWaitTimeout  = 1205
	mysqlDeadlock         = 1213
	mysqlCheckConstraint  = 3819
	mysqlRowIsReferenced2 = 1217
	mysqlNoReferencedRow2 = 1216
)

func sqlitePrimaryCode(err error) (int, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return 0, false
	}
	return se.Code() & 0xff, true
}

func mysqlNumber(err error) (uint16, bool) {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return 0, false
	}
	return me.Number, true
}

// IsBusy reports whether err is a lock contention failure: SQLITE_BUSY or
// SQLITE_LOCKED (including BUSY_SNAPSHOT), or a MySQL deadlock or lock wait
// timeout. The losing side of a write race sees one of these.
func IsBusy(err error) bool {
	if code, ok := sqlitePrimaryCode(err); ok {
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	if n, ok := mysqlNumber(err); ok {
		return n == mysqlDeadlock || n == mysqlLockWaitTimeout
	}
	return false
}

// IsConstraint reports whether err is a primary key, unique, foreign key or
// check constraint violation.
func IsConstraint(err error) bool {
	if code, ok := sqlitePrimaryCode(err); ok {
		return code == sqlite3.SQLITE_CONSTRAINT
	}
	if n, ok := mysqlNumber(err); ok {
		switch n {
		case mysqlDuplicateEntry, mysqlRowIsReferenced, mysqlNoReferencedRow,
			mysqlRowIsReferenced2, mysqlNoReferencedRow2, mysqlCheckConstraint:
			return true
		}
	}
	return false
}

// IsTransient reports whether an operation that failed with err may succeed
// if repeated unchanged. Used only while opening the store.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsBusy(err) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
