// Package file is a directory-backed object store for local runs. Objects live
// at <root>/<bucket>/<key>; user metadata sits next to each object in a
// <key>.meta.toml file.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/payment-holds/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	MetadataSuffix = ".meta.toml"

	currentSchemaVersion = 1
	objectDirMode        = 0o755
	objectFileMode       = 0o644
	tempFilePattern      = ".object-*.tmp"
)

type metadataSchema struct {
	Version  int               `toml:"version"`
	Metadata map[string]string `toml:"metadata"`
}

func (s *metadataSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Metadata == nil {
		s.Metadata = map[string]string{}
	}
}

func (s metadataSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported metadata schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	return nil
}

type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.ObjectStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

// Metadata returns the object's sidecar metadata, or an empty map when the
// object has none.
func (s *Store) Metadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.pathFor(bucket, key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := os.Stat(path); err != nil {
		return nil, objectError("stat", bucket, key, err)
	}

	data, err := os.ReadFile(path + MetadataSuffix)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, objectError("read metadata", bucket, key, err)
	}

	var schema metadataSchema
	if err := toml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decode metadata %s/%s: %w", bucket, key, err)
	}
	if err := schema.validateVersion(); err != nil {
		return nil, err
	}
	schema.applyDefaults()

	metadata := make(map[string]string, len(schema.Metadata))
	for name, value := range schema.Metadata {
		metadata[strings.ToLower(name)] = value
	}
	return metadata, nil
}

func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.pathFor(bucket, key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, objectError("read", bucket, key, err)
	}
	return data, nil
}

// Put stores data and its metadata, replacing any previous object.
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, metadata map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathFor(bucket, key)
	if err != nil {
		return err
	}

	schema := metadataSchema{Metadata: metadata}
	schema.applyDefaults()
	encoded, err := toml.Marshal(schema)
	if err != nil {
		return fmt.Errorf("encode metadata %s/%s: %w", bucket, key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), objectDirMode); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}
	if err := writeAtomic(path+MetadataSuffix, encoded); err != nil {
		return fmt.Errorf("write metadata %s/%s: %w", bucket, key, err)
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("write object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *Store) pathFor(bucket, key string) (string, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return "", fmt.Errorf("invalid bucket %q", bucket)
	}

	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("object key is empty")
	}
	if strings.HasSuffix(trimmed, MetadataSuffix) {
		return "", fmt.Errorf("invalid object key %q", key)
	}

	cleaned := filepath.Clean(filepath.FromSlash(trimmed))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." {
		return "", fmt.Errorf("invalid object key %q", key)
	}

	return filepath.Join(s.root, bucket, cleaned), nil
}

func writeAtomic(path string, data []byte) error {
	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return err
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return err
	}
	if err := tempFile.Chmod(objectFileMode); err != nil {
		_ = tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}
	if err := os.Rename(tempName, path); err != nil {
		return err
	}

	cleanup = false
	return nil
}

func objectError(op, bucket, key string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s %s/%s: %w", op, bucket, key, ports.ErrObjectNotFound)
	}
	return fmt.Errorf("%s %s/%s: %w", op, bucket, key, err)
}
