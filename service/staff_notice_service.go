package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"rewardbot/events"
)

// MaxNoticeLength keeps a broadcast within a single direct message
const MaxNoticeLength = 1500

// StaffNoticeService broadcasts messages from one staff member to the rest.
// Delivery is left to subscribers of StaffNoticeEvent.
type StaffNoticeService struct {
	runner *TxRunner
}

func NewStaffNoticeService(runner *TxRunner) *StaffNoticeService {
	return &StaffNoticeService{runner: runner}
}

// Broadcast records the notice in the admin log and publishes it in the same
// transaction, so a notice is delivered only if it was logged
func (s *StaffNoticeService) Broadcast(ctx context.Context, actor Principal, message string) error {
	message = strings.TrimSpace(message)
	if message == "" || utf8.RuneCountInString(message) > MaxNoticeLength {
		return fmt.Errorf("%w: notice must be 1-%d characters", ErrInvalidMessage, MaxNoticeLength)
	}

	return s.runner.Run(ctx, func(uow UnitOfWork) error {
		if _, err := uow.AdminLogRepository().Append(ctx, actor.Identity(), "notified staff: "+message); err != nil {
			return err
		}
		uow.EventBus().Publish(events.StaffNoticeEvent{
			Actor:     actor.Identity(),
			ActorName: actor.DisplayName(),
			Message:   message,
		})
		return nil
	})
}
