package runtime

import (
	"context"
	"fmt"
	"os"

	"stackit.dev/vbranch/internal/config"
	"stackit.dev/vbranch/internal/dragdrop"
	"stackit.dev/vbranch/internal/engine"
	vberrors "stackit.dev/vbranch/internal/errors"
	"stackit.dev/vbranch/internal/git"
	"stackit.dev/vbranch/internal/notify"
	"stackit.dev/vbranch/internal/output"
)

// Context provides access to engine and output for commands
type Context struct {
	Context  context.Context
	Engine   *engine.Engine
	Queue    *notify.Queue
	Factory  *dragdrop.Factory
	Splog    *output.Splog
	RepoRoot string

	// DefaultBranchID receives unowned hunks when AutoAssign is set
	DefaultBranchID string
	AutoAssign      bool

	// WorkingHunks lists the uncommitted hunks of the working copy
	WorkingHunks func(ctx context.Context) ([]git.Hunk, error)
}

// NewContext wires a queue and a resolver factory around eng
func NewContext(ctx context.Context, eng *engine.Engine, splog *output.Splog) *Context {
	if splog == nil {
		splog = output.NewSplog()
	}
	queue := notify.NewQueue()
	return &Context{
		Context: ctx,
		Engine:  eng,
		Queue:   queue,
		Factory: dragdrop.NewFactory(eng, queue, splog),
		Splog:   splog,
	}
}

// Close releases the queue subscribers
func (c *Context) Close() {
	c.Queue.Close()
}

// AssureOpenWorkspace refuses changes to ownership while HEAD is detached
// or a git operation is stopped midway. Contexts without a repository, as in
// demo mode, are always open.
func (c *Context) AssureOpenWorkspace() error {
	if c.RepoRoot == "" {
		return nil
	}
	return git.AssureOpenWorkspace(c.RepoRoot)
}

// IsDemoMode returns true if VB_DEMO environment variable is set
func IsDemoMode() bool {
	return os.Getenv("VB_DEMO") != ""
}

// DemoPersisterFactory creates the seeded store used in demo mode.
// This is set by the demo package to avoid circular imports.
var DemoPersisterFactory func() engine.Persister

// DemoHunks lists the simulated working copy in demo mode
var DemoHunks func(ctx context.Context) ([]git.Hunk, error)

// DemoDefaultBranch returns the default branch id in demo mode
var DemoDefaultBranch func() string

// NewContextAuto creates a context automatically based on the environment.
// In demo mode, branches come from the demo store. Otherwise they are read
// from the refs of the repository at repoRoot.
func NewContextAuto(ctx context.Context, repoRoot string, splog *output.Splog) (*Context, error) {
	var store engine.Persister
	demo := IsDemoMode() && DemoPersisterFactory != nil
	if demo {
		store = DemoPersisterFactory()
	} else {
		repo, err := git.OpenRepository(repoRoot)
		if err != nil {
			return nil, err
		}
		store = engine.NewRefPersister(git.NewRefStore(repo))
	}

	eng, err := engine.NewEngine(ctx, store, splog)
	if err != nil {
		return nil, err
	}

	c := NewContext(ctx, eng, splog)
	c.RepoRoot = repoRoot
	if demo {
		c.WorkingHunks = DemoHunks
		c.DefaultBranchID = DemoDefaultBranch()
		c.AutoAssign = true
		return c, nil
	}

	c.WorkingHunks = git.NewCommandRunner(repoRoot).WorkingHunks
	cfg, err := config.GetRepoConfig(repoRoot)
	if err != nil {
		return nil, err
	}
	if cfg.DefaultBranch != nil {
		c.DefaultBranchID = *cfg.DefaultBranch
	}
	c.AutoAssign = cfg.AutoAssign == nil || *cfg.AutoAssign
	return c, nil
}

// GetContext returns the appropriate context (demo or real) based on the environment.
// This handles repository discovery and config checks for real mode.
func GetContext(ctx context.Context, splog *output.Splog) (*Context, error) {
	if IsDemoMode() {
		return NewContextAuto(ctx, "", splog)
	}

	repoRoot, err := git.GetRepoRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	if !config.IsInitialized(repoRoot) {
		return nil, fmt.Errorf("%w: run 'vb init' first", vberrors.ErrNotInitialized)
	}

	return NewContextAuto(ctx, repoRoot, splog)
}
