package observability

const MetricPrefix = "rewardbot"

const (
	AccountsCreatedTotal       = MetricPrefix + ".accounts.created_total"
	BalanceChangesTotal        = MetricPrefix + ".ledger.balance_changes_total"
	BalanceChangeAmount        = MetricPrefix + ".ledger.balance_change_amount"
	KeysGeneratedTotal         = MetricPrefix + ".keys.generated_total"
	KeysClaimedTotal           = MetricPrefix + ".keys.claimed_total"
	ReferralsAwardedTotal      = MetricPrefix + ".referrals.awarded_total"
	AdminActionsTotal          = MetricPrefix + ".admin.actions_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

const (
	LabelReason    = "reason"
	LabelKind      = "kind"
	LabelEventType = "event_type"
)
