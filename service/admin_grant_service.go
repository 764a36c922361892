package service

import (
	"context"
	"fmt"

	"rewardbot/models"
)

// AdminGrantService manages dynamically granted privileges
type AdminGrantService struct {
	runner *TxRunner
}

func NewAdminGrantService(runner *TxRunner) *AdminGrantService {
	return &AdminGrantService{runner: runner}
}

// Grant creates or replaces the grant of identity and lifts any ban on it
func (s *AdminGrantService) Grant(ctx context.Context, identity, displayName string, role models.Role, grantedBy string) error {
	if !role.IsElevated() {
		return fmt.Errorf("cannot grant role %s", role)
	}
	return s.runner.Run(ctx, func(uow UnitOfWork) error {
		return uow.AdminGrantRepository().Upsert(ctx, &models.AdminGrant{
			Identity:    identity,
			DisplayName: displayName,
			Role:        role,
			GrantedBy:   grantedBy,
		})
	})
}

// Revoke removes a grant. It fails with ErrGrantNotFound when there is none.
func (s *AdminGrantService) Revoke(ctx context.Context, identity string) error {
	return s.runner.Run(ctx, func(uow UnitOfWork) error {
		deleted, err := uow.AdminGrantRepository().Delete(ctx, identity)
		if err != nil {
			return fmt.Errorf("failed to revoke grant of %s: %w", identity, err)
		}
		if !deleted {
			return fmt.Errorf("%w: %s", ErrGrantNotFound, identity)
		}
		return nil
	})
}

// SetBanned suspends or restores a grant without deleting it
func (s *AdminGrantService) SetBanned(ctx context.Context, identity string, banned bool) error {
	return s.runner.Run(ctx, func(uow UnitOfWork) error {
		found, err := uow.AdminGrantRepository().SetBanned(ctx, identity, banned)
		if err != nil {
			return fmt.Errorf("failed to update grant of %s: %w", identity, err)
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrGrantNotFound, identity)
		}
		return nil
	})
}

func (s *AdminGrantService) List(ctx context.Context) ([]*models.AdminGrant, error) {
	var grants []*models.AdminGrant
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		grants, err = uow.AdminGrantRepository().List(ctx)
		return err
	})
	return grants, err
}
