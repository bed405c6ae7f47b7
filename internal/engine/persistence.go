package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"stackit.dev/vbranch/internal/git"
)

// MemoryPersister keeps branches in memory. It backs demo mode and tests.
type MemoryPersister struct {
	mu       sync.Mutex
	branches map[string]VirtualBranch
}

// NewMemoryPersister creates a MemoryPersister holding seed
func NewMemoryPersister(seed ...VirtualBranch) *MemoryPersister {
	p := &MemoryPersister{branches: make(map[string]VirtualBranch)}
	for _, b := range seed {
		p.branches[b.ID] = b.clone()
	}
	return p
}

// Load returns the stored branches ordered by Order
func (p *MemoryPersister) Load(_ context.Context) ([]VirtualBranch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]VirtualBranch, 0, len(p.branches))
	for _, b := range p.branches {
		out = append(out, b.clone())
	}
	slices.SortFunc(out, func(a, b VirtualBranch) int { return a.Order - b.Order })
	return out, nil
}

// Save stores branch, replacing any branch with the same id
func (p *MemoryPersister) Save(_ context.Context, branch VirtualBranch) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.branches[branch.ID] = branch.clone()
	return nil
}

// RefPersister stores each branch as a JSON blob under refs/vbranches/<id>
type RefPersister struct {
	store *git.RefStore
}

// NewRefPersister creates a RefPersister on top of store
func NewRefPersister(store *git.RefStore) *RefPersister {
	return &RefPersister{store: store}
}

// Load reads every branch record
func (p *RefPersister) Load(ctx context.Context) ([]VirtualBranch, error) {
	ids, err := p.store.List()
	if err != nil {
		return nil, err
	}

	branches := make([]VirtualBranch, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := p.store.Read(id)
		if err != nil {
			return nil, err
		}
		var b VirtualBranch
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("failed to parse branch record %s: %w", id, err)
		}
		branches = append(branches, b)
	}
	slices.SortFunc(branches, func(a, b VirtualBranch) int { return a.Order - b.Order })
	return branches, nil
}

// Save writes the branch record
func (p *RefPersister) Save(ctx context.Context, branch VirtualBranch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(branch)
	if err != nil {
		return fmt.Errorf("failed to marshal branch %s: %w", branch.ID, err)
	}
	return p.store.Write(branch.ID, data)
}
