package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"syscall"

	"github.com/0x6d61/dorkgen/internal/engine"
)

// Kind classifies an IOError.
type Kind int

const (
	KindOther Kind = iota
	KindPermission
	KindPathInvalid
	KindDiskFull
)

func (k Kind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindPathInvalid:
		return "path-invalid"
	case KindDiskFull:
		return "disk-full"
	default:
		return "other"
	}
}

// IOError reports a failed save or export.
type IOError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("export %s (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func classify(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EROFS):
		return KindPermission
	case errors.Is(err, syscall.ENOSPC), errors.Is(err, syscall.EDQUOT):
		return KindDiskFull
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.EISDIR), errors.Is(err, syscall.ENAMETOOLONG),
		errors.Is(err, syscall.EINVAL):
		return KindPathInvalid
	}
	return KindOther
}

// WriteFile creates (or truncates) path and exports results into it. A
// failure midway may leave a partial file behind.
func WriteFile(ctx context.Context, path string, exp Exporter, results *engine.Results) error {
	if strings.TrimSpace(path) == "" {
		return &IOError{Path: path, Kind: KindPathInvalid, Err: errors.New("empty file name")}
	}

	f, err := os.Create(path)
	if err != nil {
		return &IOError{Path: path, Kind: classify(err), Err: err}
	}
	if err := exp.Export(ctx, results, f); err != nil {
		f.Close()
		return &IOError{Path: path, Kind: classify(err), Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Path: path, Kind: classify(err), Err: err}
	}
	return nil
}
