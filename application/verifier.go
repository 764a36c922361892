package application

import (
	"context"
	"fmt"
	"time"

	"rewardbot/models"
	"rewardbot/service"

	log "github.com/sirupsen/logrus"
)

// MembershipChecker confirms that an identity meets the entry requirements,
// e.g. membership of a guild with a required role
type MembershipChecker interface {
	IsMember(ctx context.Context, identity string) (bool, error)
}

// VerificationResult is the outcome of one verification attempt
type VerificationResult struct {
	Verified  bool
	FirstTime bool
	Referral  models.ReferralOutcome
}

// Verifier runs the membership check and, on success, completes the
// caller's pending referral
type Verifier struct {
	accounts  *service.AccountService
	referrals *service.ReferralService
	authz     *service.AuthorizationService
	checker   MembershipChecker
	now       func() time.Time
}

func NewVerifier(accounts *service.AccountService, referrals *service.ReferralService, authz *service.AuthorizationService, checker MembershipChecker) *Verifier {
	return &Verifier{
		accounts:  accounts,
		referrals: referrals,
		authz:     authz,
		checker:   checker,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Verify checks identity. Owners and admins skip the membership check.
func (v *Verifier) Verify(ctx context.Context, identity string) (VerificationResult, error) {
	elevated, err := v.authz.IsElevated(ctx, identity)
	if err != nil {
		return VerificationResult{}, err
	}

	if !elevated {
		member, err := v.checker.IsMember(ctx, identity)
		if err != nil {
			return VerificationResult{}, fmt.Errorf("failed to check membership of %s: %w", identity, err)
		}
		if !member {
			log.WithField("identity", identity).Debug("Membership check failed")
			return VerificationResult{}, nil
		}
	}

	first, err := v.accounts.MarkVerified(ctx, identity, v.now())
	if err != nil {
		return VerificationResult{}, err
	}

	outcome, err := v.referrals.CompleteReferral(ctx, identity)
	if err != nil {
		return VerificationResult{}, err
	}

	return VerificationResult{Verified: true, FirstTime: first, Referral: outcome}, nil
}
