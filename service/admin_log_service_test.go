package service

import (
	"context"
	"errors"
	"testing"

	"rewardbot/events"
	"rewardbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminLogService_Append(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewAdminLogService(newTestRunner(uow))

	uow.AdminLog.On("Append", mock.Anything, "OWNER1", "lent -50 points to U1").
		Return(&models.AdminLogEntry{ID: 1, ActorIdentity: "OWNER1", Action: "lent -50 points to U1"}, nil)

	svc.Append(ctx, "OWNER1", "lent -50 points to U1")

	uow.AdminLog.AssertExpectations(t)
	assert.Len(t, uow.Publisher.OfType(events.EventTypeAdminAction), 1)
}

func TestAdminLogService_Append_SwallowsErrors(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectRollback()
	svc := NewAdminLogService(newTestRunner(uow))

	uow.AdminLog.On("Append", mock.Anything, "OWNER1", "x").Return(nil, errors.New("disk full"))

	assert.NotPanics(t, func() { svc.Append(ctx, "OWNER1", "x") })
	uow.AssertNotCalled(t, "Commit")
}

func TestAdminLogService_Query_PagesLazily(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectRollback()
	svc := NewAdminLogService(newTestRunner(uow))

	filter := models.AdminLogFilter{Actor: "OWNER1", PageSize: 2}
	uow.AdminLog.On("List", ctx, filter, int64(0), 2).Return([]*models.AdminLogEntry{{ID: 1}, {ID: 2}}, nil)
	uow.AdminLog.On("List", ctx, filter, int64(2), 2).Return([]*models.AdminLogEntry{{ID: 5}, {ID: 8}}, nil)
	uow.AdminLog.On("List", ctx, filter, int64(8), 2).Return([]*models.AdminLogEntry{{ID: 9}}, nil)

	seq := svc.Query(ctx, filter)

	var ids []int64
	for entry, err := range seq {
		require.NoError(t, err)
		ids = append(ids, entry.ID)
	}
	assert.Equal(t, []int64{1, 2, 5, 8, 9}, ids)

	// ranging again restarts from the beginning
	var again []int64
	for entry, err := range seq {
		require.NoError(t, err)
		again = append(again, entry.ID)
		if len(again) == 1 {
			break
		}
	}
	assert.Equal(t, []int64{1}, again)
	uow.AdminLog.AssertNumberOfCalls(t, "List", 4)
}

func TestAdminLogService_Query_YieldsErrors(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectRollback()
	svc := NewAdminLogService(newTestRunner(uow))

	uow.AdminLog.On("List", ctx, mock.Anything, int64(0), defaultAdminLogPageSize).Return(nil, errors.New("timeout"))

	var errs []error
	for entry, err := range svc.Query(ctx, models.AdminLogFilter{}) {
		assert.Nil(t, entry)
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "timeout")
}

func TestAdminLogService_Append_SurvivesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewAdminLogService(newTestRunner(uow))

	live := mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })
	uow.AdminLog.On("Append", live, "OWNER1", "set balance of U1 to 0").
		Return(&models.AdminLogEntry{ID: 3}, nil)

	svc.Append(ctx, "OWNER1", "set balance of U1 to 0")

	uow.AdminLog.AssertExpectations(t)
	uow.AssertCalled(t, "Commit")
}

func TestAdminLogService_Recent_NewestFirst(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectRollback()
	svc := NewAdminLogService(newTestRunner(uow))

	latest := []*models.AdminLogEntry{{ID: 30}, {ID: 29}, {ID: 28}}
	uow.AdminLog.On("ListRecent", ctx, models.AdminLogFilter{}, 3).Return(latest, nil)

	recent, err := svc.Recent(ctx, models.AdminLogFilter{}, 3)

	require.NoError(t, err)
	assert.Equal(t, latest, recent)
	uow.AdminLog.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminLogService_Recent_Errors(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectRollback()
	svc := NewAdminLogService(newTestRunner(uow))

	uow.AdminLog.On("ListRecent", ctx, mock.Anything, defaultAdminLogPageSize).Return(nil, errors.New("timeout"))

	_, err := svc.Recent(ctx, models.AdminLogFilter{}, 0)

	assert.ErrorContains(t, err, "timeout")
}
