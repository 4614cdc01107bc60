package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
	"github.com/BuzzLyutic/task-sync-api/internal/repo"
)

// Board is the remote Notion database tasks are mirrored to.
type Board interface {
	Push(ctx context.Context, t model.Task) (string, error)
	PullAll(ctx context.Context) ([]model.RemotePage, error)
}

// SyncService reconciles local tasks with the board.
//
// There is no locking: overlapping reconciles, or a reconcile racing a
// single-task push, resolve as last write wins.
type SyncService struct {
	repo   repo.TaskRepository
	board  Board
	logger *zap.Logger

	now      func() time.Time
	newID    func() string
	lastSync atomic.Pointer[time.Time]
}

// NewSyncService accepts a nil board (remote sync disabled) and a nil repo
// (store unavailable).
func NewSyncService(repo repo.TaskRepository, board Board, logger *zap.Logger) *SyncService {
	return &SyncService{
		repo:   repo,
		board:  board,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (s *SyncService) Configured() bool {
	return s.board != nil
}

// PushTask sends one task to the board and, for a newly created page,
// links it locally. Failures are logged and reported as ok=false only.
func (s *SyncService) PushTask(ctx context.Context, t model.Task) (string, bool) {
	if s.board == nil || s.repo == nil {
		return "", false
	}

	notionID, err := s.board.Push(ctx, t)
	if err != nil {
		s.logger.Error("error syncing task to notion", zap.String("task_id", t.ID), zap.Error(err))
		return "", false
	}

	if !t.Synced() {
		// Если запись не удалась, страница в Notion уже создана:
		// следующий pull импортирует её как новую задачу (дубликат).
		if err := s.repo.SetNotionID(ctx, t.ID, notionID); err != nil {
			s.logger.Error("failed to link notion page",
				zap.String("task_id", t.ID), zap.String("notion_id", notionID), zap.Error(err))
			return "", false
		}
	}
	return notionID, true
}

// Pull absorbs every board page into the store: linked tasks are
// overwritten with the remote values, unknown pages become new tasks.
// A failing page is recorded and skipped.
func (s *SyncService) Pull(ctx context.Context) (int, []string, error) {
	pages, err := s.board.PullAll(ctx)
	if err != nil {
		return 0, nil, err
	}

	synced := 0
	var errs []string
	for _, p := range pages {
		if err := s.absorb(ctx, p); err != nil {
			s.logger.Error("failed to sync notion page", zap.String("notion_id", p.NotionID), zap.Error(err))
			errs = append(errs, fmt.Sprintf("page %s: %v", p.NotionID, err))
			continue
		}
		synced++
	}
	return synced, errs, nil
}

func (s *SyncService) absorb(ctx context.Context, p model.RemotePage) error {
	existing, err := s.repo.GetByNotionID(ctx, p.NotionID)
	switch {
	case err == nil:
		matched, err := s.repo.UpdateFields(ctx, existing.ID, map[string]any{
			"title":       p.Title,
			"description": p.Description,
			"status":      p.Status,
			"priority":    p.Priority,
			"due_date":    p.DueDate,
		})
		if err != nil || matched > 0 {
			return err
		}
		// задачу удалили между поиском и обновлением: импортируем заново
	case !errors.Is(err, repo.ErrorNotFound):
		return err
	}

	now := s.now()
	notionID := p.NotionID
	_, err = s.repo.Create(ctx, model.Task{
		ID:          s.newID(),
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
		NotionID:    &notionID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return err
}

// PushPending pushes every task without a Notion link. Failed pushes are
// not retried and not counted.
func (s *SyncService) PushPending(ctx context.Context) (int, error) {
	tasks, err := s.repo.ListUnsynced(ctx, MaxListLimit)
	if err != nil {
		return 0, err
	}

	pushed := 0
	for _, t := range tasks {
		if _, ok := s.PushTask(ctx, t); ok {
			pushed++
		}
	}
	return pushed, nil
}

// Reconcile runs pull then push.
func (s *SyncService) Reconcile(ctx context.Context) (model.SyncResult, error) {
	if s.board == nil {
		return model.SyncResult{}, ErrRemoteUnconfigured
	}
	if s.repo == nil {
		return model.SyncResult{}, ErrStoreUnavailable
	}

	pulled, errs, err := s.Pull(ctx)
	if err != nil {
		return model.SyncResult{}, &SyncError{Err: err}
	}

	pushed, err := s.PushPending(ctx)
	if err != nil {
		return model.SyncResult{}, &SyncError{Err: err}
	}

	now := s.now()
	s.lastSync.Store(&now)

	s.logger.Info("sync completed",
		zap.Int("synced_from_remote", pulled),
		zap.Int("synced_to_remote", pushed),
		zap.Int("page_errors", len(errs)),
	)

	return model.SyncResult{
		Status:           "success",
		SyncedFromRemote: pulled,
		SyncedToRemote:   pushed,
		Errors:           errs,
		Timestamp:        now,
	}, nil
}

func (s *SyncService) Status(ctx context.Context) (model.SyncStatus, error) {
	if s.repo == nil {
		return model.SyncStatus{}, ErrStoreUnavailable
	}

	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return model.SyncStatus{}, err
	}

	status := model.SyncReady
	switch {
	case s.board == nil:
		status = model.SyncNotConfigured
	case stats.SyncedTasks == 0 && stats.TotalTasks > 0:
		status = model.SyncNeedsSync
	case stats.SyncedTasks == stats.TotalTasks:
		status = model.SyncSynced
	}

	return model.SyncStatus{
		LastSync:    s.lastSync.Load(),
		TotalTasks:  stats.TotalTasks,
		SyncedTasks: stats.SyncedTasks,
		Status:      status,
	}, nil
}
