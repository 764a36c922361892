package service

import (
	"context"
	"time"

	"rewardbot/events"
	"rewardbot/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByIdentity(ctx context.Context, identity string) (*models.Account, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByDisplayName(ctx context.Context, displayName string) (*models.Account, error) {
	args := m.Called(ctx, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) CreateIfAbsent(ctx context.Context, account *models.Account) (*models.Account, bool, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, identity string, delta int64) (int64, int64, error) {
	args := m.Called(ctx, identity, delta)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) DeductBalance(ctx context.Context, identity string, amount int64) (int64, int64, error) {
	args := m.Called(ctx, identity, amount)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) SetBalance(ctx context.Context, identity string, balance int64) (int64, int64, error) {
	args := m.Called(ctx, identity, balance)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) SetBanned(ctx context.Context, identity string, banned bool) error {
	args := m.Called(ctx, identity, banned)
	return args.Error(0)
}

func (m *MockAccountRepository) TakePendingReferrer(ctx context.Context, identity string) (string, bool, error) {
	args := m.Called(ctx, identity)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) ClearPendingReferrer(ctx context.Context, identity string) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockAccountRepository) IncrementReferralCount(ctx context.Context, identity string) (int, error) {
	args := m.Called(ctx, identity)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) MarkVerified(ctx context.Context, identity string, at time.Time) (bool, error) {
	args := m.Called(ctx, identity, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) ListVerifiedWithPendingReferral(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Record(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) GetByIdentity(ctx context.Context, identity string, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, identity, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) Insert(ctx context.Context, edge *models.ReferralEdge) (bool, error) {
	args := m.Called(ctx, edge)
	return args.Bool(0), args.Error(1)
}

func (m *MockReferralRepository) GetByReferred(ctx context.Context, referredIdentity string) (*models.ReferralEdge, error) {
	args := m.Called(ctx, referredIdentity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferralEdge), args.Error(1)
}

func (m *MockReferralRepository) ListByReferrer(ctx context.Context, referrerIdentity string, limit int) ([]*models.ReferralEdge, error) {
	args := m.Called(ctx, referrerIdentity, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReferralEdge), args.Error(1)
}

// MockRedemptionKeyRepository is a mock implementation of RedemptionKeyRepository
type MockRedemptionKeyRepository struct {
	mock.Mock
}

func (m *MockRedemptionKeyRepository) Insert(ctx context.Context, key *models.RedemptionKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedemptionKeyRepository) Claim(ctx context.Context, code, claimant string, at time.Time) (*models.RedemptionKey, error) {
	args := m.Called(ctx, code, claimant, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RedemptionKey), args.Error(1)
}

func (m *MockRedemptionKeyRepository) GetByCode(ctx context.Context, code string) (*models.RedemptionKey, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RedemptionKey), args.Error(1)
}

func (m *MockRedemptionKeyRepository) ListUnclaimed(ctx context.Context, kind models.KeyKind, limit int) ([]*models.RedemptionKey, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RedemptionKey), args.Error(1)
}

// MockAdminGrantRepository is a mock implementation of AdminGrantRepository
type MockAdminGrantRepository struct {
	mock.Mock
}

func (m *MockAdminGrantRepository) GetByIdentity(ctx context.Context, identity string) (*models.AdminGrant, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminGrant), args.Error(1)
}

func (m *MockAdminGrantRepository) Upsert(ctx context.Context, grant *models.AdminGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockAdminGrantRepository) Delete(ctx context.Context, identity string) (bool, error) {
	args := m.Called(ctx, identity)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminGrantRepository) SetBanned(ctx context.Context, identity string, banned bool) (bool, error) {
	args := m.Called(ctx, identity, banned)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminGrantRepository) List(ctx context.Context) ([]*models.AdminGrant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AdminGrant), args.Error(1)
}

// MockAdminLogRepository is a mock implementation of AdminLogRepository
type MockAdminLogRepository struct {
	mock.Mock
}

func (m *MockAdminLogRepository) Append(ctx context.Context, actorIdentity, action string) (*models.AdminLogEntry, error) {
	args := m.Called(ctx, actorIdentity, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminLogEntry), args.Error(1)
}

func (m *MockAdminLogRepository) List(ctx context.Context, filter models.AdminLogFilter, afterID int64, limit int) ([]*models.AdminLogEntry, error) {
	args := m.Called(ctx, filter, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AdminLogEntry), args.Error(1)
}

func (m *MockAdminLogRepository) ListRecent(ctx context.Context, filter models.AdminLogFilter, limit int) ([]*models.AdminLogEntry, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AdminLogEntry), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, key models.SettingKey) (*models.Setting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Setting), args.Error(1)
}

func (m *MockSettingsRepository) Set(ctx context.Context, setting *models.Setting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockSettingsRepository) List(ctx context.Context) ([]*models.Setting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Setting), args.Error(1)
}

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockStatsRepository) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dashboard), args.Error(1)
}

// MockSettingsCache is a mock implementation of SettingsCache
type MockSettingsCache struct {
	mock.Mock
}

func (m *MockSettingsCache) Get(ctx context.Context, key models.SettingKey) (int64, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockSettingsCache) Set(ctx context.Context, key models.SettingKey, value int64) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockSettingsCache) Delete(ctx context.Context, key models.SettingKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Events = append(m.Events, event)
}

// OfType returns the recorded events of one type
func (m *MockEventPublisher) OfType(t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range m.Events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

// MockReviewRepository is a mock implementation of ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Insert(ctx context.Context, identity, body string) (*models.Review, error) {
	args := m.Called(ctx, identity, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListRecent(ctx context.Context, limit int) ([]*models.Review, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories that
// were not set panic when requested, like an unstarted unit of work.
type MockUnitOfWork struct {
	mock.Mock
	Accounts  *MockAccountRepository
	Ledger    *MockLedgerEntryRepository
	Referrals *MockReferralRepository
	Keys      *MockRedemptionKeyRepository
	Grants    *MockAdminGrantRepository
	AdminLog  *MockAdminLogRepository
	Settings  *MockSettingsRepository
	Stats     *MockStatsRepository
	Reviews   *MockReviewRepository
	Publisher *MockEventPublisher
}

// NewMockUnitOfWork creates a unit of work with fresh repository mocks
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Accounts:  new(MockAccountRepository),
		Ledger:    new(MockLedgerEntryRepository),
		Referrals: new(MockReferralRepository),
		Keys:      new(MockRedemptionKeyRepository),
		Grants:    new(MockAdminGrantRepository),
		AdminLog:  new(MockAdminLogRepository),
		Settings:  new(MockSettingsRepository),
		Stats:     new(MockStatsRepository),
		Reviews:   new(MockReviewRepository),
		Publisher: new(MockEventPublisher),
	}
}

// ExpectCommit registers Begin, Commit and Rollback expectations
func (m *MockUnitOfWork) ExpectCommit() *MockUnitOfWork {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Commit").Return(nil)
	m.On("Rollback").Return(nil)
	return m
}

// ExpectRollback registers Begin and Rollback expectations
func (m *MockUnitOfWork) ExpectRollback() *MockUnitOfWork {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Rollback").Return(nil)
	return m
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository             { return m.Accounts }
func (m *MockUnitOfWork) LedgerEntryRepository() LedgerEntryRepository     { return m.Ledger }
func (m *MockUnitOfWork) ReferralRepository() ReferralRepository           { return m.Referrals }
func (m *MockUnitOfWork) RedemptionKeyRepository() RedemptionKeyRepository { return m.Keys }
func (m *MockUnitOfWork) AdminGrantRepository() AdminGrantRepository       { return m.Grants }
func (m *MockUnitOfWork) AdminLogRepository() AdminLogRepository           { return m.AdminLog }
func (m *MockUnitOfWork) SettingsRepository() SettingsRepository           { return m.Settings }
func (m *MockUnitOfWork) StatsRepository() StatsRepository                 { return m.Stats }
func (m *MockUnitOfWork) ReviewRepository() ReviewRepository               { return m.Reviews }
func (m *MockUnitOfWork) EventBus() EventPublisher                         { return m.Publisher }

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// SingleUnitOfWorkFactory returns the same unit of work on every Create
type SingleUnitOfWorkFactory struct {
	UoW UnitOfWork
}

func (f SingleUnitOfWorkFactory) Create() UnitOfWork {
	return f.UoW
}
