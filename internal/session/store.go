package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/config"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	bucketSession = []byte("session")
	keyToken      = []byte("token")
	keyIdentity   = []byte("admin")
)

// TokenStore is the credential capability handed to anything that needs the
// bearer token. There is exactly one token key.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}

// IdentityStore persists the admin record returned on login.
type IdentityStore interface {
	Identity() (*catalog.AdminIdentity, error)
	SetIdentity(admin catalog.AdminIdentity) error
}

// Store keeps the session in a single bbolt file.
type Store struct {
	db *bolt.DB
}

var (
	_ TokenStore    = (*Store)(nil)
	_ IdentityStore = (*Store)(nil)
)

// Open opens (or creates) the session file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	return &Store{db: db}, nil
}

// ProvideStore opens the store configured in session.store_path.
// @Provider
func ProvideStore(cfg *config.Config) (*Store, func(), error) {
	s, err := Open(cfg.Session.StorePath)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { _ = s.Close() }, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Token() (string, error) {
	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		token = string(tx.Bucket(bucketSession).Get(keyToken))
		return nil
	})
	return token, err
}

func (s *Store) SetToken(token string) error {
	if token == "" {
		return errors.New("refusing to store an empty token")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyToken, []byte(token))
	})
}

// ClearToken drops the token and the admin identity together.
func (s *Store) ClearToken() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if err := b.Delete(keyToken); err != nil {
			return err
		}
		return b.Delete(keyIdentity)
	})
}

// Identity returns nil when nobody is logged in.
func (s *Store) Identity() (*catalog.AdminIdentity, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketSession).Get(keyIdentity); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, err
	}
	var admin catalog.AdminIdentity
	if err := json.Unmarshal(raw, &admin); err != nil {
		return nil, fmt.Errorf("decode admin identity: %w", err)
	}
	return &admin, nil
}

func (s *Store) SetIdentity(admin catalog.AdminIdentity) error {
	raw, err := json.Marshal(admin)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyIdentity, raw)
	})
}

// MemoryStore is a process-local TokenStore and IdentityStore.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	admin *catalog.AdminIdentity
}

var (
	_ TokenStore    = (*MemoryStore)(nil)
	_ IdentityStore = (*MemoryStore)(nil)
)

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.admin = nil
	return nil
}

func (m *MemoryStore) Identity() (*catalog.AdminIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.admin == nil {
		return nil, nil
	}
	admin := *m.admin
	return &admin, nil
}

func (m *MemoryStore) SetIdentity(admin catalog.AdminIdentity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admin = &admin
	return nil
}
