package service

import (
	"context"
	"fmt"
	"slices"

	"rewardbot/models"
)

// AuthorizationService classifies identities as Owner, Admin or None. It is
// the only place privilege is decided.
//
// Precedence: static owner, then a non-banned dynamic owner grant, then
// static admin, then a non-banned dynamic admin grant. Owner always wins.
type AuthorizationService struct {
	runner *TxRunner
	owners []string
	admins []string
}

func NewAuthorizationService(runner *TxRunner, owners, admins []string) *AuthorizationService {
	return &AuthorizationService{
		runner: runner,
		owners: slices.Clone(owners),
		admins: slices.Clone(admins),
	}
}

// Classify resolves the role of a raw identity. The display name used for
// @username entries comes from the stored account, if any.
func (s *AuthorizationService) Classify(ctx context.Context, identity string) (models.Role, error) {
	return s.ClassifyPrincipal(ctx, NewPrincipal(identity, ""))
}

// ClassifyPrincipal resolves the role of a principal. An empty display name
// is filled in from the stored account.
func (s *AuthorizationService) ClassifyPrincipal(ctx context.Context, p Principal) (models.Role, error) {
	if p.Identity() == "" {
		return models.RoleNone, nil
	}

	var grant *models.AdminGrant
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		if p.DisplayName() == "" {
			account, err := uow.AccountRepository().GetByIdentity(ctx, p.Identity())
			if err != nil {
				return err
			}
			if account != nil {
				p = NewPrincipal(p.Identity(), account.DisplayName)
			}
		}

		var err error
		grant, err = uow.AdminGrantRepository().GetByIdentity(ctx, p.Identity())
		return err
	})
	if err != nil {
		return models.RoleNone, fmt.Errorf("failed to classify %s: %w", p.Identity(), err)
	}

	return s.resolve(p, grant), nil
}

func (s *AuthorizationService) resolve(p Principal, grant *models.AdminGrant) models.Role {
	active := grant != nil && !grant.Banned

	switch {
	case matchesAny(s.owners, p):
		return models.RoleOwner
	case active && grant.Role == models.RoleOwner:
		return models.RoleOwner
	case matchesAny(s.admins, p):
		return models.RoleAdmin
	case active && grant.Role == models.RoleAdmin:
		return models.RoleAdmin
	default:
		return models.RoleNone
	}
}

// IsElevated reports whether the identity is an admin or owner
func (s *AuthorizationService) IsElevated(ctx context.Context, identity string) (bool, error) {
	role, err := s.Classify(ctx, identity)
	if err != nil {
		return false, err
	}
	return role.IsElevated(), nil
}

// Require fails with ErrUnauthorized unless the principal holds one of the
// roles. The transport's display name is matched against @username entries,
// so an owner listed by name is recognised before their account exists.
func (s *AuthorizationService) Require(ctx context.Context, p Principal, allowed ...models.Role) (models.Role, error) {
	role, err := s.ClassifyPrincipal(ctx, p)
	if err != nil {
		return models.RoleNone, err
	}
	if !slices.Contains(allowed, role) {
		return role, fmt.Errorf("%w: %s has role %s", ErrUnauthorized, p.Identity(), role)
	}
	return role, nil
}
