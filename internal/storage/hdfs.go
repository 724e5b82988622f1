package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/colinmarc/hdfs/v2"
)

// HDFSStore writes images below a directory of an HDFS cluster.
type HDFSStore struct {
	client *hdfs.Client
	dir    string
}

func NewHDFSStore(addr, dir string) (*HDFSStore, error) {
	client, err := hdfs.New(addr)
	if err != nil {
		return nil, fmt.Errorf("connect to hdfs: %w", err)
	}
	if err := client.MkdirAll(dir, 0o755); err != nil {
		client.Close()
		return nil, fmt.Errorf("create hdfs dir %s: %w", dir, err)
	}
	return &HDFSStore{client: client, dir: dir}, nil
}

func (s *HDFSStore) Save(_ context.Context, name string, r io.Reader) error {
	if !ValidName(name) {
		return ErrInvalidName
	}

	w, err := s.client.Create(path.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		s.client.Remove(path.Join(s.dir, name))
		return fmt.Errorf("write %s: %w", name, err)
	}
	return w.Close()
}

func (s *HDFSStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}

	f, err := s.client.Open(path.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *HDFSStore) Remove(_ context.Context, name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}

	err := s.client.Remove(path.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return ErrImageNotFound
	}
	return err
}

func (s *HDFSStore) Close() error {
	return s.client.Close()
}
