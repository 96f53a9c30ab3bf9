package cart

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/afero"
)

var ErrNoCart = errors.New("no stored cart")

// Storage is the session-scoped key/value space a cart is persisted to.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (s *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[key]
	if !ok {
		return nil, ErrNoCart
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStorage) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), data...)
	return nil
}

// RedisStorage keeps each cart under "<prefix><session>" and refreshes the
// expiry on every save.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, prefix string, ttl time.Duration) *RedisStorage {
	if prefix == "" {
		prefix = "cart:"
	}
	return &RedisStorage{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoCart
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	return raw, nil
}

func (s *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// FileStorage writes one JSON file per session into dir.
type FileStorage struct {
	fs  afero.Fs
	dir string
}

func NewFileStorage(fs afero.Fs, dir string) (*FileStorage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cart dir: %w", err)
	}
	return &FileStorage{fs: fs, dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(filepath.Clean("/"+key))+".json")
}

func (s *FileStorage) Load(_ context.Context, key string) ([]byte, error) {
	raw, err := afero.ReadFile(s.fs, s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoCart
	}
	if err != nil {
		return nil, fmt.Errorf("read cart file: %w", err)
	}
	return raw, nil
}

func (s *FileStorage) Save(_ context.Context, key string, data []byte) error {
	if err := afero.WriteFile(s.fs, s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write cart file: %w", err)
	}
	return nil
}
