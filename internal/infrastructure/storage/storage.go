// Package storage keeps cover images on the local disk or in an S3-compatible
// bucket. Both backends implement ports.CoverStorage.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// sniffLen is how many leading bytes are inspected to detect a content type.
const sniffLen = 3072

// sniff detects the content type of r from its first bytes and returns a
// reader that still yields the whole stream.
func sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, fmt.Errorf("read header: %w", err)
	}
	head = head[:n]
	return mimetype.Detect(head).String(), io.MultiReader(bytes.NewReader(head), r), nil
}

func checkName(name string) error {
	if !domain.IsCoverName(name) {
		return fmt.Errorf("storage: invalid object name %q", name)
	}
	return nil
}
