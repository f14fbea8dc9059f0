package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Error taxonomy surfaced by every store implementation. Match with errors.Is.
var (
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("unauthorized")
	ErrTransient  = errors.New("store unavailable")
)

func IsDupKeyErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && strings.Contains(mysqlErr.Error(), "Duplicate")
}
