package events

import (
	"rewardbot/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeAccountCreated  EventType = "account_created"
	EventTypeBalanceChange   EventType = "balance_change"
	EventTypeReferralAwarded EventType = "referral_awarded"
	EventTypeKeyClaimed      EventType = "key_claimed"
	EventTypeKeysGenerated   EventType = "keys_generated"
	EventTypeAdminAction     EventType = "admin_action"
	EventTypePointsLent      EventType = "points_lent"
	EventTypeStaffNotice     EventType = "staff_notice"
	EventTypeReviewSubmitted EventType = "review_submitted"
)

// AllEventTypes lists every event type, for subscribers that forward everything
var AllEventTypes = []EventType{
	EventTypeAccountCreated,
	EventTypeBalanceChange,
	EventTypeReferralAwarded,
	EventTypeKeyClaimed,
	EventTypeKeysGenerated,
	EventTypeAdminAction,
	EventTypePointsLent,
	EventTypeStaffNotice,
	EventTypeReviewSubmitted,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// AccountCreatedEvent is emitted when an account is first created
type AccountCreatedEvent struct {
	Identity        string
	DisplayName     string
	StartingBalance int64
	PendingReferrer string
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// BalanceChangeEvent represents a committed ledger mutation
type BalanceChangeEvent struct {
	Identity     string
	OldBalance   int64
	NewBalance   int64
	ChangeAmount int64
	Reason       models.LedgerReason
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// ReferralAwardedEvent is emitted when a referrer is credited
type ReferralAwardedEvent struct {
	Referrer      string
	Referred      string
	Bonus         int64
	ReferralCount int
}

func (e ReferralAwardedEvent) Type() EventType {
	return EventTypeReferralAwarded
}

// KeyClaimedEvent is emitted when a redemption key is claimed
type KeyClaimedEvent struct {
	Code       string
	Kind       models.KeyKind
	Claimant   string
	Points     int64
	NewBalance int64
}

func (e KeyClaimedEvent) Type() EventType {
	return EventTypeKeyClaimed
}

// KeysGeneratedEvent is emitted when an administrator creates keys
type KeysGeneratedEvent struct {
	Actor string
	Kind  models.KeyKind
	Codes []string
}

func (e KeysGeneratedEvent) Type() EventType {
	return EventTypeKeysGenerated
}

// AdminActionEvent mirrors an admin log entry
type AdminActionEvent struct {
	Actor  string
	Action string
}

func (e AdminActionEvent) Type() EventType {
	return EventTypeAdminAction
}

// PointsLentEvent is emitted when an owner adjusts someone's balance with lend
type PointsLentEvent struct {
	Actor      string
	Target     string
	Delta      int64
	NewBalance int64
}

func (e PointsLentEvent) Type() EventType {
	return EventTypePointsLent
}

// StaffNoticeEvent carries a broadcast from one staff member to the others
type StaffNoticeEvent struct {
	Actor     string
	ActorName string
	Message   string
}

func (e StaffNoticeEvent) Type() EventType {
	return EventTypeStaffNotice
}

// ReviewSubmittedEvent is emitted when a user leaves a review
type ReviewSubmittedEvent struct {
	ReviewID int64
	Identity string
	Text     string
}

func (e ReviewSubmittedEvent) Type() EventType {
	return EventTypeReviewSubmitted
}
