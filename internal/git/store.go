package git

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// VirtualBranchRefPrefix is the ref namespace holding virtual branch records
const VirtualBranchRefPrefix = "refs/vbranches/"

// ErrRecordNotFound is returned by RefStore.Read when no ref exists for the id
var ErrRecordNotFound = errors.New("record not found")

// RefStore persists opaque records as blobs referenced from refs/vbranches/<id>
type RefStore struct {
	repo *Repository
}

// NewRefStore creates a RefStore backed by repo
func NewRefStore(repo *Repository) *RefStore {
	return &RefStore{repo: repo}
}

func refNameFor(id string) plumbing.ReferenceName {
	return plumbing.ReferenceName(VirtualBranchRefPrefix + id)
}

// Write stores data as a blob and points the record ref at it
func (s *RefStore) Write(id string, data []byte) error {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)

	w, err := obj.Writer()
	if err != nil {
		return fmt.Errorf("failed to open blob writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close blob writer: %w", err)
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return fmt.Errorf("failed to store blob: %w", err)
	}

	ref := plumbing.NewHashReference(refNameFor(id), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("failed to write ref %s: %w", ref.Name(), err)
	}
	return nil
}

// Read returns the record stored for id
func (s *RefStore) Read(id string) ([]byte, error) {
	ref, err := s.repo.Reference(refNameFor(id), false)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("%s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to resolve ref for %s: %w", id, err)
	}

	blob, err := s.repo.BlobObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to load blob for %s: %w", id, err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to read blob for %s: %w", id, err)
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// List returns the ids of all stored records, sorted
func (s *RefStore) List() ([]string, error) {
	refs, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to get references: %w", err)
	}

	var ids []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if id, ok := strings.CutPrefix(ref.Name().String(), VirtualBranchRefPrefix); ok {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(ids)
	return ids, nil
}

// Delete removes the record ref for id. The blob is left for git gc.
func (s *RefStore) Delete(id string) error {
	return s.repo.Storer.RemoveReference(refNameFor(id))
}
