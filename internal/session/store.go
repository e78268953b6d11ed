// Package session is the server-side session store. The browser cookie only
// carries an opaque session id; the MTProto credential blob stays in
// Postgres, sealed with an AEAD key.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one user's login state.
type Session struct {
	ID string
	// TelegramSession is the serialized MTProto session, already unsealed.
	TelegramSession []byte
	UserID          int64
	FirstName       string
	Phone           string
	PhoneCodeHash   string
	LoggedIn        bool
}

// Store defines session persistence.
type Store interface {
	Create(ctx context.Context) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, sess Session) error
	Delete(ctx context.Context, id string) error
}

// Repo is a sqlx-backed store.
type Repo struct {
	db     *sqlx.DB
	sealer *sealer
}

// NewRepo constructs a Repo. The secret must be a 32-byte AES key.
func NewRepo(db *sqlx.DB, secret []byte) (*Repo, error) {
	s, err := newSealer(secret)
	if err != nil {
		return nil, fmt.Errorf("session sealer: %w", err)
	}
	return &Repo{db: db, sealer: s}, nil
}

type sessionRow struct {
	ID              string `db:"id"`
	TelegramSession []byte `db:"telegram_session"`
	UserID          int64  `db:"user_id"`
	FirstName       string `db:"first_name"`
	Phone           string `db:"phone"`
	PhoneCodeHash   string `db:"phone_code_hash"`
	LoggedIn        bool   `db:"logged_in"`
}

// Create inserts an empty session and returns it.
func (r *Repo) Create(ctx context.Context) (Session, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions (id) VALUES ($1)`, id)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return Session{ID: id}, nil
}

// Get loads and unseals a session by id.
func (r *Repo) Get(ctx context.Context, id string) (Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Session{}, ErrSessionNotFound
	}

	var row sessionRow
	err := r.db.GetContext(ctx, &row, `SELECT id, telegram_session, user_id, first_name, phone, phone_code_hash, logged_in FROM sessions WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}

	sess := Session{
		ID:            row.ID,
		UserID:        row.UserID,
		FirstName:     row.FirstName,
		Phone:         row.Phone,
		PhoneCodeHash: row.PhoneCodeHash,
		LoggedIn:      row.LoggedIn,
	}
	if len(row.TelegramSession) > 0 {
		blob, err := r.sealer.open(row.TelegramSession)
		if err != nil {
			// A blob that fails to unseal is unusable; treat the session
			// as gone rather than serving a broken credential.
			return Session{}, ErrSessionNotFound
		}
		sess.TelegramSession = blob
	}
	return sess, nil
}

// Save seals the credential blob and persists every session field.
func (r *Repo) Save(ctx context.Context, sess Session) error {
	var sealed []byte
	if len(sess.TelegramSession) > 0 {
		var err error
		sealed, err = r.sealer.seal(sess.TelegramSession)
		if err != nil {
			return fmt.Errorf("seal session: %w", err)
		}
	}

	res, err := r.db.ExecContext(ctx, `UPDATE sessions
        SET telegram_session=$2, user_id=$3, first_name=$4, phone=$5, phone_code_hash=$6, logged_in=$7, updated_at=NOW()
        WHERE id=$1`,
		sess.ID, sealed, sess.UserID, sess.FirstName, sess.Phone, sess.PhoneCodeHash, sess.LoggedIn)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session row.
func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
