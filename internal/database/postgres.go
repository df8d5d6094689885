package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	uniqueViolationCode     = pq.ErrorCode("23505")
	foreignKeyViolationCode = pq.ErrorCode("23503")
)

type PgMessengerRepository struct {
	conn *sql.DB
}

func NewPgMessengerRepository(dsn string) (*PgMessengerRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PgMessengerRepository{conn: db}, nil
}

func (db *PgMessengerRepository) Ping() error {
	return db.conn.Ping()
}

func (db *PgMessengerRepository) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// IsDuplicate reports whether err is a unique constraint violation. The
// uniqueness constraints on users, group_members, channel_subscribers and
// channel_admins are the sole duplicate-race arbiter; callers translate this
// into their operation's semantics (conflict error or silent skip).
func IsDuplicate(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation reports whether err was caused by referencing a
// nonexistent row, e.g. adding an unknown user to a group.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolationCode
}
