package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LocalStore keeps assets on disk under root and serves them from baseURL
type LocalStore struct {
	root    string
	baseURL string
	logger  zerolog.Logger
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", root, err)
	}
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.With().Str("storeName", "local").Str("root", root).Logger(),
	}, nil
}

// Root is the directory assets are written to
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Put(ctx context.Context, namespace string, asset Asset) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reference := newReference(namespace, asset.Extension)
	target := filepath.Join(s.root, filepath.FromSlash(reference))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", reference, err)
	}
	if err := os.WriteFile(target, asset.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", reference, err)
	}

	s.logger.Debug().Str("reference", reference).Int("bytes", len(asset.Data)).Msg("stored asset")
	return reference, nil
}

func (s *LocalStore) Delete(ctx context.Context, reference string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cleaned, err := cleanReference(reference)
	if err != nil {
		return err
	}

	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(cleaned)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", cleaned, err)
	}

	s.logger.Debug().Str("reference", cleaned).Msg("deleted asset")
	return nil
}

func (s *LocalStore) URL(reference string) string {
	return s.baseURL + "/" + strings.TrimPrefix(reference, "/")
}
