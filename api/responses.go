package api

import (
	"time"

	"rewardbot/models"
)

type adminLogEntryResponse struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

type leaderboardEntryResponse struct {
	Rank          int    `json:"rank"`
	Identity      string `json:"identity"`
	DisplayName   string `json:"display_name"`
	Balance       int64  `json:"balance"`
	ReferralCount int    `json:"referral_count"`
}

type dashboardResponse struct {
	TotalAccounts  int64 `json:"total_accounts"`
	BannedAccounts int64 `json:"banned_accounts"`
	TotalPoints    int64 `json:"total_points"`
	PendingKeys    int64 `json:"pending_keys"`
	ClaimedKeys    int64 `json:"claimed_keys"`
	Referrals      int64 `json:"referrals"`
}

type grantResponse struct {
	Identity    string      `json:"identity"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
	Banned      bool        `json:"banned"`
	GrantedBy   string      `json:"granted_by"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func toAdminLogResponse(entries []*models.AdminLogEntry) []adminLogEntryResponse {
	out := make([]adminLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, adminLogEntryResponse{
			ID:        e.ID,
			Actor:     e.ActorIdentity,
			Action:    e.Action,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

func toLeaderboardResponse(entries []*models.LeaderboardEntry) []leaderboardEntryResponse {
	out := make([]leaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryResponse{
			Rank:          e.Rank,
			Identity:      e.Identity,
			DisplayName:   e.DisplayName,
			Balance:       e.Balance,
			ReferralCount: e.ReferralCount,
		})
	}
	return out
}

func toDashboardResponse(d *models.Dashboard) dashboardResponse {
	return dashboardResponse{
		TotalAccounts:  d.TotalAccounts,
		BannedAccounts: d.BannedAccounts,
		TotalPoints:    d.TotalPoints,
		PendingKeys:    d.PendingKeys,
		ClaimedKeys:    d.ClaimedKeys,
		Referrals:      d.Referrals,
	}
}

func toGrantResponse(grants []*models.AdminGrant) []grantResponse {
	out := make([]grantResponse, 0, len(grants))
	for _, g := range grants {
		out = append(out, grantResponse{
			Identity:    g.Identity,
			DisplayName: g.DisplayName,
			Role:        g.Role,
			Banned:      g.Banned,
			GrantedBy:   g.GrantedBy,
			UpdatedAt:   g.UpdatedAt,
		})
	}
	return out
}
