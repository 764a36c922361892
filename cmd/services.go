package cmd

import (
	"rewardbot/application"
	"rewardbot/config"
	"rewardbot/models"
	"rewardbot/service"
)

// Stack is the service graph shared by the bot process and the admin CLI
type Stack struct {
	Rewards       *application.Rewards
	Accounts      *service.AccountService
	Referrals     *service.ReferralService
	Authorization *service.AuthorizationService
}

// BuildStack wires the domain services on top of a unit of work factory
func BuildStack(cfg *config.Config, factory service.UnitOfWorkFactory, cache service.SettingsCache) *Stack {
	runner := service.NewTxRunner(factory, cfg.LedgerMaxAttempts, cfg.LedgerRetryBaseDelay)

	settings := service.NewSettingsService(runner, cache, map[models.SettingKey]int64{
		models.SettingReferralBonus:    cfg.DefaultReferralBonus,
		models.SettingAccountClaimCost: cfg.DefaultAccountClaimCost,
	})
	accounts := service.NewAccountService(runner, cfg.StartingBalance)
	referrals := service.NewReferralService(runner, settings)
	authz := service.NewAuthorizationService(runner, cfg.OwnerIdentities, cfg.AdminIdentities)

	rewards := application.NewRewards(application.Services{
		Accounts:  accounts,
		Ledger:    service.NewLedgerService(runner),
		Referrals: referrals,
		Redemption: service.NewRedemptionService(runner, map[models.KeyKind]int64{
			models.KeyKindStandard: cfg.StandardKeyPoints,
			models.KeyKindPremium:  cfg.PremiumKeyPoints,
		}),
		Authorization: authz,
		Grants:        service.NewAdminGrantService(runner),
		AdminLog:      service.NewAdminLogService(runner),
		Settings:      settings,
		Stats:         service.NewStatsService(runner),
		Reviews:       service.NewReviewService(runner),
		Notices:       service.NewStaffNoticeService(runner),
	})

	return &Stack{
		Rewards:       rewards,
		Accounts:      accounts,
		Referrals:     referrals,
		Authorization: authz,
	}
}
