// Package configsync mirrors a tenant's scenario configuration tree from
// a remote Git repository into the local directory pkg/loader reads
// from. It is disabled by default and only runs when
// config.GitSyncConfig.Enabled is set, with a remote URL configured.
package configsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/chatflow-dev/scenariorunner/pkg/config"
)

// Syncer periodically mirrors GitSyncConfig.RepoURL into LocalPath,
// either cloning it on first run or pulling on every subsequent poll.
type Syncer struct {
	cfg *config.GitSyncConfig

	mu       sync.Mutex
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New returns a Syncer for cfg. Start is a no-op if cfg.Enabled is false.
func New(cfg *config.GitSyncConfig) *Syncer {
	return &Syncer{cfg: cfg, stopCh: make(chan struct{})}
}

// Start performs an initial sync and, if enabled, launches the poll
// loop in the background. Returns immediately after the initial sync.
func (s *Syncer) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		slog.Info("configsync disabled, skipping")
		return nil
	}

	if err := s.Sync(ctx); err != nil {
		return fmt.Errorf("configsync: initial sync failed: %w", err)
	}

	s.wg.Add(1)
	go s.loop(ctx)
	return nil
}

// Stop halts the poll loop and waits for it to exit.
func (s *Syncer) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

func (s *Syncer) loop(ctx context.Context) {
	defer s.wg.Done()

	interval := s.cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			slog.Info("configsync loop stopping")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sync(ctx); err != nil {
				slog.Error("configsync poll failed", "error", err)
			}
		}
	}
}

// Sync clones the repository into LocalPath if it doesn't exist yet, or
// pulls the configured branch otherwise. A no-op pull (already
// up to date) is not treated as an error.
func (s *Syncer) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	auth := s.authMethod()

	if _, err := os.Stat(s.cfg.LocalPath); os.IsNotExist(err) {
		slog.Info("configsync cloning repository", "repo_url", s.cfg.RepoURL, "local_path", s.cfg.LocalPath)
		_, err := git.PlainCloneContext(ctx, s.cfg.LocalPath, false, &git.CloneOptions{
			URL:           s.cfg.RepoURL,
			ReferenceName: branchRef(s.cfg.Branch),
			Auth:          auth,
			SingleBranch:  true,
		})
		return err
	}

	repo, err := git.PlainOpen(s.cfg.LocalPath)
	if err != nil {
		return fmt.Errorf("configsync: open local mirror: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("configsync: load worktree: %w", err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		ReferenceName: branchRef(s.cfg.Branch),
		Auth:          auth,
		SingleBranch:  true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("configsync: pull: %w", err)
	}
	return nil
}

func branchRef(branch string) plumbing.ReferenceName {
	if branch == "" {
		branch = "main"
	}
	return plumbing.NewBranchReferenceName(branch)
}

func (s *Syncer) authMethod() *http.BasicAuth {
	if s.cfg.TokenEnv == "" {
		return nil
	}
	token := os.Getenv(s.cfg.TokenEnv)
	if token == "" {
		return nil
	}
	return &http.BasicAuth{Username: "token", Password: token}
}
