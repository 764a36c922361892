package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"rewardbot/models"
	"rewardbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMembershipChecker struct {
	mock.Mock
}

func (m *MockMembershipChecker) IsMember(ctx context.Context, identity string) (bool, error) {
	args := m.Called(ctx, identity)
	return args.Bool(0), args.Error(1)
}

type fixedBonus int64

func (b fixedBonus) ReferralBonus(context.Context) int64 { return int64(b) }

func newMockVerifier(uow *service.MockUnitOfWork, checker MembershipChecker, owners []string) *Verifier {
	runner := service.NewTxRunner(service.SingleUnitOfWorkFactory{UoW: uow}, 3, time.Millisecond)
	return NewVerifier(
		service.NewAccountService(runner, 20),
		service.NewReferralService(runner, fixedBonus(4)),
		service.NewAuthorizationService(runner, owners, nil),
		checker,
	)
}

func TestVerifier_NotMember(t *testing.T) {
	ctx := context.Background()
	uow := service.NewMockUnitOfWork().ExpectRollback()
	checker := new(MockMembershipChecker)
	verifier := newMockVerifier(uow, checker, nil)

	expectNoGrant(uow, ctx, "U2")
	checker.On("IsMember", ctx, "U2").Return(false, nil)

	result, err := verifier.Verify(ctx, "U2")

	require.NoError(t, err)
	assert.False(t, result.Verified)
	uow.Accounts.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything)
	uow.Accounts.AssertNotCalled(t, "TakePendingReferrer", mock.Anything, mock.Anything)
}

func TestVerifier_CheckerError(t *testing.T) {
	ctx := context.Background()
	uow := service.NewMockUnitOfWork().ExpectRollback()
	checker := new(MockMembershipChecker)
	verifier := newMockVerifier(uow, checker, nil)

	expectNoGrant(uow, ctx, "U2")
	checker.On("IsMember", ctx, "U2").Return(false, errors.New("discord unavailable"))

	_, err := verifier.Verify(ctx, "U2")

	assert.ErrorContains(t, err, "discord unavailable")
}

func TestVerifier_MemberCompletesReferral(t *testing.T) {
	ctx := context.Background()
	uow := service.NewMockUnitOfWork().ExpectCommit()
	checker := new(MockMembershipChecker)
	verifier := newMockVerifier(uow, checker, nil)

	expectNoGrant(uow, ctx, "U2")
	checker.On("IsMember", ctx, "U2").Return(true, nil)
	uow.Accounts.On("MarkVerified", ctx, "U2", mock.Anything).Return(true, nil)
	uow.Accounts.On("TakePendingReferrer", ctx, "U2").Return("U1", true, nil)
	uow.Accounts.On("GetByIdentity", ctx, "U1").Return(&models.Account{Identity: "U1", Balance: 20}, nil)
	uow.Referrals.On("Insert", ctx, mock.Anything).Return(true, nil)
	uow.Accounts.On("AddBalance", ctx, "U1", int64(4)).Return(int64(20), int64(24), nil)
	uow.Ledger.On("Record", ctx, mock.Anything).Return(nil)
	uow.Accounts.On("IncrementReferralCount", ctx, "U1").Return(1, nil)

	result, err := verifier.Verify(ctx, "U2")

	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.True(t, result.FirstTime)
	assert.True(t, result.Referral.Awarded)
	assert.Equal(t, "U1", result.Referral.Referrer)
	checker.AssertExpectations(t)
}

func TestVerifier_OwnerSkipsMembershipCheck(t *testing.T) {
	ctx := context.Background()
	uow := service.NewMockUnitOfWork().ExpectCommit()
	checker := new(MockMembershipChecker)
	verifier := newMockVerifier(uow, checker, []string{"OWNER1"})

	expectNoGrant(uow, ctx, "OWNER1")
	uow.Accounts.On("MarkVerified", ctx, "OWNER1", mock.Anything).Return(false, nil)
	uow.Accounts.On("TakePendingReferrer", ctx, "OWNER1").Return("", false, nil)

	result, err := verifier.Verify(ctx, "OWNER1")

	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.True(t, result.Referral.NoOp())
	checker.AssertNotCalled(t, "IsMember", mock.Anything, mock.Anything)
}
