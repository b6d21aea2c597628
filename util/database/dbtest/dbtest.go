// Package dbtest supplies a stub *sql.DB whose transactions always succeed.
// Service tests pair it with repository mocks that ignore the *sql.Tx, so
// only Begin/Commit/Rollback ever reach the driver; any statement hitting
// the driver is a test bug and errors loudly.
package dbtest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
)

func Open() *sql.DB { return sql.OpenDB(connector{}) }

type connector struct{}

func (connector) Connect(context.Context) (driver.Conn, error) { return conn{}, nil }
func (connector) Driver() driver.Driver                        { return drv{} }

type drv struct{}

func (drv) Open(string) (driver.Conn, error) { return conn{}, nil }

type conn struct{}

func (conn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("dbtest: statements must go through repository mocks")
}
func (conn) Close() error              { return nil }
func (conn) Begin() (driver.Tx, error) { return tx{}, nil }

type tx struct{}

func (tx) Commit() error   { return nil }
func (tx) Rollback() error { return nil }
