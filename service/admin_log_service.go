package service

import (
	"context"
	"iter"

	"rewardbot/events"
	"rewardbot/models"

	log "github.com/sirupsen/logrus"
)

const defaultAdminLogPageSize = 100

// AdminLogService writes and reads the append-only admin action log
type AdminLogService struct {
	runner *TxRunner
}

func NewAdminLogService(runner *TxRunner) *AdminLogService {
	return &AdminLogService{runner: runner}
}

// Append records a privileged action in its own transaction. Failures are
// logged and never returned, so the mutation being described is unaffected.
// The mutation has already committed, so cancelling ctx does not skip the entry.
func (s *AdminLogService) Append(ctx context.Context, actor, action string) {
	ctx = context.WithoutCancel(ctx)
	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		if _, err := uow.AdminLogRepository().Append(ctx, actor, action); err != nil {
			return err
		}
		uow.EventBus().Publish(events.AdminActionEvent{Actor: actor, Action: action})
		return nil
	})
	if err != nil {
		log.WithFields(log.Fields{
			"actor":  actor,
			"action": action,
		}).WithError(err).Error("Failed to append admin log entry")
	}
}

// Query yields matching entries in insertion order. Pages are fetched lazily
// as the caller ranges, and every range starts again from the beginning.
func (s *AdminLogService) Query(ctx context.Context, filter models.AdminLogFilter) iter.Seq2[*models.AdminLogEntry, error] {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultAdminLogPageSize
	}

	return func(yield func(*models.AdminLogEntry, error) bool) {
		var afterID int64
		for {
			var page []*models.AdminLogEntry
			err := s.runner.View(ctx, func(uow UnitOfWork) error {
				var err error
				page, err = uow.AdminLogRepository().List(ctx, filter, afterID, pageSize)
				return err
			})
			if err != nil {
				yield(nil, err)
				return
			}

			for _, entry := range page {
				if !yield(entry, nil) {
					return
				}
				afterID = entry.ID
			}
			if len(page) < pageSize {
				return
			}
		}
	}
}

// Recent returns the latest limit entries, newest first. A limit below 1
// uses the default page size.
func (s *AdminLogService) Recent(ctx context.Context, filter models.AdminLogFilter, limit int) ([]*models.AdminLogEntry, error) {
	if limit <= 0 {
		limit = defaultAdminLogPageSize
	}
	var entries []*models.AdminLogEntry
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		entries, err = uow.AdminLogRepository().ListRecent(ctx, filter, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
