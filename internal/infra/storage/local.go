package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
)

// Local keeps blobs under dir and serves them below publicPrefix.
type Local struct {
	dir          string
	publicPrefix string
}

func NewLocal(dir, publicPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create upload dir")
	}
	return &Local{dir: dir, publicPrefix: publicPrefix}, nil
}

func (s *Local) Dir() string {
	return s.dir
}

func (s *Local) Put(ctx context.Context, folder, filename string, body io.Reader) (string, error) {
	folder = cleanFolder(folder)
	target := filepath.Join(s.dir, filepath.FromSlash(folder))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create folder")
	}

	tmp, err := os.CreateTemp(target, ".upload-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	hasher := xxh3.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), body); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "failed to write upload")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close upload")
	}

	name := objectName(hasher.Sum64(), filename)
	if err := os.Rename(tmp.Name(), filepath.Join(target, name)); err != nil {
		return "", errors.Wrap(err, "failed to store upload")
	}

	return path.Join(s.publicPrefix, folder, name), nil
}
