package session

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/url"
	"time"

	"github.com/valkey-io/valkey-go"

	cryptoutil "hrmweb/internal/platform/crypto"
)

const valkeyKeyPrefix = "hrmweb:session:"

type valkeyRecord struct {
	TokenEnc  []byte    `json:"tokenEnc"`
	User      User      `json:"user"`
	DataEnc   []byte    `json:"dataEnc,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ValkeyStore keeps sessions as JSON values whose key TTL matches the
// session expiry, so expired sessions vanish without a sweep. Token and
// data are sealed inside the value.
type ValkeyStore struct {
	Client valkey.Client
	Crypto *cryptoutil.Service
}

func NewValkeyStore(client valkey.Client, crypto *cryptoutil.Service) *ValkeyStore {
	return &ValkeyStore{Client: client, Crypto: crypto}
}

// NewValkeyClient accepts valkey://, redis://, valkeys:// or rediss:// URLs.
func NewValkeyClient(uri string) (valkey.Client, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	username := ""
	password := ""
	if u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
	}

	options := valkey.ClientOption{
		InitAddress: []string{u.Host},
		Username:    username,
		Password:    password,
	}
	if u.Scheme == "valkeys" || u.Scheme == "rediss" {
		options.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return valkey.NewClient(options)
}

func (s *ValkeyStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.Client.Do(ctx, s.Client.B().Get().Key(valkeyKeyPrefix+id).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec valkeyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	token, err := s.Crypto.DecryptString(rec.TokenEnc)
	if err != nil {
		return nil, err
	}
	data, err := openData(s.Crypto, rec.DataEnc)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		Token:     token,
		User:      rec.User,
		Data:      data,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (s *ValkeyStore) Save(ctx context.Context, sess *Session) error {
	if sess.Token == "" {
		return ErrNoToken
	}
	tokenEnc, err := s.Crypto.EncryptString(sess.Token)
	if err != nil {
		return err
	}
	dataEnc, err := sealData(s.Crypto, sess.Data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(valkeyRecord{
		TokenEnc:  tokenEnc,
		User:      sess.User,
		DataEnc:   dataEnc,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		return err
	}
	ttl := int64(time.Until(sess.ExpiresAt).Seconds())
	if ttl < 1 {
		return s.Delete(ctx, sess.ID)
	}
	return s.Client.Do(ctx, s.Client.B().Set().Key(valkeyKeyPrefix+sess.ID).Value(string(payload)).
		ExSeconds(ttl).Build()).Error()
}

func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	return s.Client.Do(ctx, s.Client.B().Del().Key(valkeyKeyPrefix+id).Build()).Error()
}

// DeleteExpired is a no-op: valkey expires keys on its own.
func (s *ValkeyStore) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *ValkeyStore) Ping(ctx context.Context) error {
	return s.Client.Do(ctx, s.Client.B().Ping().Build()).Error()
}
