// Package storage keeps uploaded and generated files on local disk and
// serves them under /uploads.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/ledongthuc/pdf"
)

const PublicPrefix = "/uploads/"

type Kind int

const (
	Image Kind = iota
	PDF
)

var allowed = map[Kind]map[string]bool{
	Image: {".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true},
	PDF:   {".pdf": true},
}

type Local struct {
	dir     string
	maxSize int64
}

func NewLocal(dir string, maxSize int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, maxSize: maxSize}, nil
}

func (l *Local) Dir() string {
	return l.dir
}

// SaveUpload validates the file for kind and stores it under a random name.
func (l *Local) SaveUpload(fh *multipart.FileHeader, kind Kind) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowed[kind][ext] {
		if kind == PDF {
			return "", apperr.Validation("only PDF files are allowed")
		}
		return "", apperr.Validation("only image files are allowed")
	}
	if l.maxSize > 0 && fh.Size > l.maxSize {
		return "", apperr.Validation(fmt.Sprintf("file must be at most %d MB", l.maxSize>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return "", apperr.Internal("failed to read upload", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", apperr.Internal("failed to read upload", err)
	}
	if kind == PDF {
		if err := ValidatePDF(data); err != nil {
			return "", apperr.Wrap(apperr.KindValidation, "resume must be a readable PDF", err)
		}
	}
	return l.Put(ext, data)
}

// Put writes data under a fresh name and returns its public path.
func (l *Local) Put(ext string, data []byte) (string, error) {
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0o644); err != nil {
		return "", apperr.Internal("failed to store file", err)
	}
	return PublicPrefix + name, nil
}

// Remove deletes a file previously returned by Put. Unknown paths are ignored.
func (l *Local) Remove(public string) error {
	if !strings.HasPrefix(public, PublicPrefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(public, PublicPrefix))
	err := os.Remove(filepath.Join(l.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ValidatePDF checks that data parses as a PDF with at least one page.
func ValidatePDF(data []byte) (err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return errors.New("missing PDF header")
	}
	// the parser panics on some malformed input
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	if r.NumPage() == 0 {
		return errors.New("PDF has no pages")
	}
	return nil
}
