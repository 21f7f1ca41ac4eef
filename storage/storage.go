// Package storage persists uploaded binary assets and hands back stable references to them.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidReference = errors.New("invalid asset reference")

// Asset is an uploaded file held in memory. Extension includes the leading dot.
type Asset struct {
	Filename    string
	ContentType string
	Extension   string
	Data        []byte
}

// Store is implemented by every storage backend
type Store interface {
	// Put stores asset under namespace and returns its reference
	Put(ctx context.Context, namespace string, asset Asset) (string, error)
	// Delete removes a stored asset. Deleting a missing asset is not an error.
	Delete(ctx context.Context, reference string) error
	// URL returns a public URL for reference
	URL(reference string) string
}

// newReference names an asset the way uploads are named everywhere: namespace/<random>.<ext>
func newReference(namespace, extension string) string {
	return path.Join(namespace, uuid.NewString()+strings.ToLower(extension))
}

// cleanReference rejects absolute references and ones that escape the storage root
func cleanReference(reference string) (string, error) {
	cleaned := path.Clean(strings.TrimPrefix(reference, "/"))
	if reference == "" || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidReference
	}
	return cleaned, nil
}
