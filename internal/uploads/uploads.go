// Package uploads keeps parsed spreadsheets and generated workbooks
// between requests, keyed by an opaque token.
package uploads

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/redis/v3"
	"github.com/google/uuid"

	"csdash/internal/sheet"
)

// ErrExpired is returned when a token is unknown or its entry has expired.
var ErrExpired = errors.New("upload expired or not found")

// Storage is the subset of a fiber storage backend the cache needs.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
	Close() error
}

// NewStorage returns a Redis backend when redisURL is set, otherwise an
// in-process memory backend.
func NewStorage(redisURL string) Storage {
	if redisURL != "" {
		return redis.New(redis.Config{URL: redisURL})
	}
	return memory.New()
}

// File is a generated download.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Cache stores tables and files under random tokens for ttl.
type Cache struct {
	storage Storage
	ttl     time.Duration
}

// New creates a cache on top of storage.
func New(storage Storage, ttl time.Duration) *Cache {
	return &Cache{storage: storage, ttl: ttl}
}

// PutTable stores t and returns its token.
func (c *Cache) PutTable(t *sheet.Table) (string, error) {
	return c.put("table:", t)
}

// Table loads a table stored by PutTable.
func (c *Cache) Table(token string) (*sheet.Table, error) {
	var t sheet.Table
	if err := c.get("table:", token, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// PutFile stores a download and returns its token.
func (c *Cache) PutFile(f *File) (string, error) {
	return c.put("file:", f)
}

// File loads a download stored by PutFile.
func (c *Cache) File(token string) (*File, error) {
	var f File
	if err := c.get("file:", token, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Delete removes a table entry.
func (c *Cache) Delete(token string) error {
	return c.storage.Delete("table:" + token)
}

func (c *Cache) put(prefix string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode upload: %w", err)
	}
	token := uuid.NewString()
	if err := c.storage.Set(prefix+token, data, c.ttl); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return token, nil
}

func (c *Cache) get(prefix, token string, v any) error {
	if _, err := uuid.Parse(token); err != nil {
		return ErrExpired
	}
	data, err := c.storage.Get(prefix + token)
	if err != nil {
		return fmt.Errorf("load upload: %w", err)
	}
	if len(data) == 0 {
		return ErrExpired
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode upload: %w", err)
	}
	return nil
}
