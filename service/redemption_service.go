package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"rewardbot/events"
	"rewardbot/models"

	log "github.com/sirupsen/logrus"
)

const (
	codeSuffixLength  = 10
	maxCodeAttempts   = 5
	MaxKeysPerRequest = 100
)

// RedemptionService generates keys and claims them exactly once
type RedemptionService struct {
	runner      *TxRunner
	pointValues map[models.KeyKind]int64
	suffix      func() (string, error)
	now         func() time.Time
}

func NewRedemptionService(runner *TxRunner, pointValues map[models.KeyKind]int64) *RedemptionService {
	values := make(map[models.KeyKind]int64, len(pointValues))
	for kind, v := range pointValues {
		values[kind] = v
	}
	return &RedemptionService{
		runner:      runner,
		pointValues: values,
		suffix:      randomLetters,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// PointValue returns the configured value of a kind
func (s *RedemptionService) PointValue(kind models.KeyKind) (int64, bool) {
	v, ok := s.pointValues[kind]
	return v, ok
}

// Generate creates a single key
func (s *RedemptionService) Generate(ctx context.Context, kind models.KeyKind, actor string) (string, error) {
	codes, err := s.GenerateBatch(ctx, kind, 1, actor)
	if err != nil {
		return "", err
	}
	return codes[0], nil
}

// GenerateBatch creates quantity keys of one kind in a single transaction
func (s *RedemptionService) GenerateBatch(ctx context.Context, kind models.KeyKind, quantity int, actor string) ([]string, error) {
	value, ok := s.pointValues[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKeyKind, kind)
	}
	if quantity < 1 || quantity > MaxKeysPerRequest {
		return nil, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidQuantity, quantity, MaxKeysPerRequest)
	}

	var codes []string
	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		codes = make([]string, 0, quantity)
		for range quantity {
			code, err := s.insertUnique(ctx, uow, kind, value, actor)
			if err != nil {
				return err
			}
			codes = append(codes, code)
		}

		uow.EventBus().Publish(events.KeysGeneratedEvent{
			Actor: actor,
			Kind:  kind,
			Codes: codes,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"actor":    actor,
		"kind":     kind,
		"quantity": len(codes),
	}).Info("Generated redemption keys")
	return codes, nil
}

func (s *RedemptionService) insertUnique(ctx context.Context, uow UnitOfWork, kind models.KeyKind, value int64, actor string) (string, error) {
	var createdBy *string
	if actor != "" {
		createdBy = &actor
	}

	for range maxCodeAttempts {
		suffix, err := s.suffix()
		if err != nil {
			return "", fmt.Errorf("failed to generate key code: %w", err)
		}
		code := kind.CodePrefix() + suffix

		inserted, err := uow.RedemptionKeyRepository().Insert(ctx, &models.RedemptionKey{
			Code:       code,
			Kind:       kind,
			PointValue: value,
			CreatedBy:  createdBy,
		})
		if err != nil {
			return "", fmt.Errorf("failed to store key: %w", err)
		}
		if inserted {
			return code, nil
		}
		log.WithField("kind", kind).Debug("Key code collision, regenerating")
	}
	return "", ErrCodeSpaceExhausted
}

// Claim redeems code for claimant. Unknown and already claimed codes are
// reported through the outcome status, not as errors. A missing claimant
// account fails with ErrAccountNotFound and leaves the key unclaimed.
func (s *RedemptionService) Claim(ctx context.Context, code, claimant string) (models.ClaimOutcome, error) {
	code = NormalizeCode(code)

	var outcome models.ClaimOutcome
	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		outcome = models.ClaimOutcome{Code: code}
		keys := uow.RedemptionKeyRepository()

		key, err := keys.Claim(ctx, code, claimant, s.now())
		if err != nil {
			return fmt.Errorf("failed to claim key: %w", err)
		}
		if key == nil {
			existing, err := keys.GetByCode(ctx, code)
			if err != nil {
				return fmt.Errorf("failed to look up key: %w", err)
			}
			if existing == nil {
				outcome.Status = models.ClaimStatusNotFound
			} else {
				outcome.Status = models.ClaimStatusAlreadyClaimed
				outcome.Kind = existing.Kind
			}
			return nil
		}

		newBalance, err := adjustBalance(ctx, uow, claimant, key.PointValue, models.LedgerReasonKeyRedemption, map[string]any{
			"code": code,
			"kind": string(key.Kind),
		})
		if err != nil {
			return err
		}

		outcome.Status = models.ClaimStatusClaimed
		outcome.Kind = key.Kind
		outcome.Points = key.PointValue
		outcome.NewBalance = newBalance

		uow.EventBus().Publish(events.KeyClaimedEvent{
			Code:       code,
			Kind:       key.Kind,
			Claimant:   claimant,
			Points:     key.PointValue,
			NewBalance: newBalance,
		})
		return nil
	})
	if err != nil {
		return models.ClaimOutcome{}, err
	}

	log.WithFields(log.Fields{
		"claimant": claimant,
		"status":   outcome.Status,
		"points":   outcome.Points,
	}).Info("Key claim processed")
	return outcome, nil
}

// ClaimError maps a non-claimed outcome to its sentinel error
func ClaimError(outcome models.ClaimOutcome) error {
	switch outcome.Status {
	case models.ClaimStatusNotFound:
		return ErrKeyNotFound
	case models.ClaimStatusAlreadyClaimed:
		return ErrKeyAlreadyClaimed
	default:
		return nil
	}
}

// Unclaimed lists keys of a kind that are still available
func (s *RedemptionService) Unclaimed(ctx context.Context, kind models.KeyKind, limit int) ([]*models.RedemptionKey, error) {
	var keys []*models.RedemptionKey
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		keys, err = uow.RedemptionKeyRepository().ListUnclaimed(ctx, kind, limit)
		return err
	})
	return keys, err
}

// NormalizeCode trims and upper-cases a user supplied code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// randomLetters returns codeSuffixLength uppercase letters from crypto/rand
func randomLetters() (string, error) {
	out := make([]byte, 0, codeSuffixLength)
	buf := make([]byte, codeSuffixLength*2)
	for len(out) < codeSuffixLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			// 234 is the largest multiple of 26 below 256
			if b >= 234 {
				continue
			}
			out = append(out, letters[b%26])
			if len(out) == codeSuffixLength {
				break
			}
		}
	}
	return string(out), nil
}
