package models

// LeaderboardEntry is one ranked account
type LeaderboardEntry struct {
	Rank          int
	Identity      string
	DisplayName   string
	Balance       int64
	ReferralCount int
}

// Dashboard holds aggregate figures for administrators
type Dashboard struct {
	TotalAccounts  int64
	BannedAccounts int64
	TotalPoints    int64
	PendingKeys    int64
	ClaimedKeys    int64
	Referrals      int64
}
