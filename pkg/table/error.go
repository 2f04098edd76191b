package table

import "errors"

// UserError is an error that is safe to return in a response
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// ErrTableNotFound is returned when no table has the UUID
var ErrTableNotFound = errors.New("table not found")

// ErrHandNotFound is returned when the table never played the hand
var ErrHandNotFound = errors.New("hand not found")

// ErrDuplicateKey happens when a table is seated with the same player or seat twice
var ErrDuplicateKey = UserError("a player or seat is used more than once")
