package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
)

// Op constants map to Redis command names for error context.
const (
	OpPing          = "PING"
	OpHSet          = "HSET"
	OpHGetAll       = "HGETALL"
	OpDel           = "DEL"
	OpSAdd          = "SADD"
	OpSRem          = "SREM"
	OpSInterCard    = "SINTER"
	OpSUnion        = "SUNION"
	OpSMembers      = "SMEMBERS"
	OpZAdd          = "ZADD"
	OpZRem          = "ZREM"
	OpZRangeByScore = "ZRANGEBYSCORE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
