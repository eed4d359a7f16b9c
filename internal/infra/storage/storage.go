package storage

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/skip2/go-qrcode"
)

// Backend persists one object and returns its public URL.
type Backend interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// File describes a stored object.
type File struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// Adapter is the file/object store used by the workflow.
type Adapter struct {
	backend Backend
}

func NewAdapter(b Backend) *Adapter {
	return &Adapter{backend: b}
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._\-]+`)

func cleanSegment(s string) string {
	s = unsafeKeyChars.ReplaceAllString(strings.TrimSpace(s), "_")
	return strings.Trim(s, "._")
}

// Store saves data under folder/filename.
func (a *Adapter) Store(ctx context.Context, data []byte, mimeType, folder, filename string) (*File, error) {
	name := cleanSegment(filename)
	if name == "" {
		return nil, fmt.Errorf("store: empty filename")
	}
	key := path.Join(cleanSegment(folder), name)

	url, err := a.backend.Put(ctx, key, data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", key, err)
	}
	return &File{URL: url, Path: key}, nil
}

// ScanCodeImage renders text as a QR code PNG and stores it under qrcodes/.
func (a *Adapter) ScanCodeImage(ctx context.Context, text string) (string, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("qr encode: %w", err)
	}
	f, err := a.Store(ctx, png, "image/png", "qrcodes", text+".png")
	if err != nil {
		return "", err
	}
	return f.URL, nil
}
