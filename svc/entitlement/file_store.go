package entitlement

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// fileStore persists one JSON snapshot file per user under a directory,
// mirroring the client's local durable storage. Writes go through a temp
// file and rename so a crash never leaves a half-written snapshot.
type fileStore struct {
	dir string
}

// NewFileStore returns a Store writing snapshots into dir, creating it if
// necessary.
func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Join(ErrSaveFailed, err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) path(userID uuid.UUID) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.%s.json", SnapshotNamespace, userID))
}

func (s *fileStore) Load(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	raw, err := os.ReadFile(s.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, errors.Join(ErrSnapshotCorrupted, err)
	}
	return UnmarshalSnapshot(raw)
}

func (s *fileStore) Save(ctx context.Context, sub *Subscription) error {
	raw, err := MarshalSnapshot(sub)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, SnapshotNamespace+".*")
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Join(ErrSaveFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}

	if err := os.Rename(tmp.Name(), s.path(sub.UserID)); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}
