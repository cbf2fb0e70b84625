// Package storage keeps the original bytes of uploaded study files.
package storage

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidName = errors.New("invalid object name")

type Store interface {
	// Put writes data under name and returns the location recorded as the
	// file path.
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, name string) error
}

func validName(name string) bool {
	return name != "" && !strings.Contains(name, "..") && !strings.ContainsAny(name, `/\`)
}
