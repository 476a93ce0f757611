package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsConstraint_MySQL(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.True(t, IsConstraint(dup))
	assert.True(t, IsConstraint(fmt.Errorf("inserting: %w", dup)))
	assert.False(t, IsConstraint(&mysql.MySQLError{Number: 1213}))
}

func TestIsBusy_MySQL(t *testing.T) {
	assert.True(t, IsBusy(&mysql.MySQLError{Number: 1213}))
	assert.True(t, IsBusy(&mysql.MySQLError{Number: 1205}))
	assert.False(t, IsBusy(&mysql.MySQLError{Number: 1062}))
}

func TestIsBusy_PlainError(t *testing.T) {
	assert.False(t, IsBusy(errors.New("database is locked")))
	assert.False(t, IsConstraint(nil))
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(mysql.ErrInvalidConn))
	assert.True(t, IsTransient(&mysql.MySQLError{Number: 1205}))
	assert.False(t, IsTransient(&mysql.MySQLError{Number: 1045, Message: "Access denied"}))
}
