package study

import (
	"errors"
	"time"

	"github.com/trezcool/revisioncam/core/auth"
)

var ErrNotFound = errors.New("workspace not found")

type (
	// Repository stores workspaces. Update must run fn while no other call can touch the same workspace.
	Repository interface {
		Create(ws *Workspace) error
		Exists(id string) bool
		Update(id string, fn func(ws *Workspace) error) error
		Delete(id string) error
		// DeleteIdle removes the workspaces not updated since `before` and returns how many were removed.
		DeleteIdle(before time.Time) (int, error)
	}

	Service struct {
		repo  Repository
		opts  Options
		clock auth.Clock
	}
)

func NewService(repo Repository, opts Options, clock auth.Clock) *Service {
	if clock == nil {
		clock = auth.SystemClock
	}
	return &Service{repo: repo, opts: opts, clock: clock}
}

// Open gives the session an empty workspace unless it already has one.
func (svc *Service) Open(sess auth.Session) error {
	if svc.repo.Exists(sess.ID) {
		return nil
	}
	return svc.repo.Create(NewWorkspace(sess.ID, sess.Username, svc.opts, svc.clock.Now()))
}

// Do runs fn on the workspace of a session, creating the workspace if needed.
func (svc *Service) Do(sess auth.Session, fn func(ws *Workspace) error) error {
	if err := svc.Open(sess); err != nil {
		return err
	}
	return svc.repo.Update(sess.ID, func(ws *Workspace) error {
		ws.UpdatedAt = svc.clock.Now()
		return fn(ws)
	})
}

// Close drops the workspace of a session.
func (svc *Service) Close(sessionID string) error {
	if err := svc.repo.Delete(sessionID); err != nil && err != ErrNotFound {
		return err
	}
	return nil
}

// PurgeIdle drops the workspaces untouched for longer than maxIdle.
func (svc *Service) PurgeIdle(maxIdle time.Duration) (int, error) {
	return svc.repo.DeleteIdle(svc.clock.Now().Add(-maxIdle))
}
