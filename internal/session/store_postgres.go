package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cryptoutil "hrmweb/internal/platform/crypto"
)

// PostgresStore persists sessions in web_sessions. The backend token and
// the data map are sealed with the crypto service before they are written.
type PostgresStore struct {
	DB     *pgxpool.Pool
	Crypto *cryptoutil.Service
}

func NewPostgresStore(db *pgxpool.Pool, crypto *cryptoutil.Service) *PostgresStore {
	return &PostgresStore{DB: db, Crypto: crypto}
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	var tokenEnc, userJSON, dataEnc []byte
	sess := &Session{ID: id}
	err := s.DB.QueryRow(ctx, `
    SELECT token_enc, user_json, data_enc, created_at, expires_at
    FROM web_sessions
    WHERE id = $1 AND expires_at > now()
  `, id).Scan(&tokenEnc, &userJSON, &dataEnc, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	token, err := s.Crypto.DecryptString(tokenEnc)
	if err != nil {
		return nil, err
	}
	sess.Token = token
	if err := json.Unmarshal(userJSON, &sess.User); err != nil {
		return nil, err
	}
	if sess.Data, err = openData(s.Crypto, dataEnc); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *PostgresStore) Save(ctx context.Context, sess *Session) error {
	if sess.Token == "" {
		return ErrNoToken
	}
	tokenEnc, err := s.Crypto.EncryptString(sess.Token)
	if err != nil {
		return err
	}
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	dataEnc, err := sealData(s.Crypto, sess.Data)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO web_sessions (id, token_enc, user_json, data_enc, created_at, expires_at)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (id) DO UPDATE
      SET token_enc = EXCLUDED.token_enc,
          user_json = EXCLUDED.user_json,
          data_enc = EXCLUDED.data_enc,
          expires_at = EXCLUDED.expires_at
  `, sess.ID, tokenEnc, userJSON, dataEnc, sess.CreatedAt, sess.ExpiresAt)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM web_sessions WHERE id = $1", id)
	return err
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM web_sessions WHERE expires_at <= $1", now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}
