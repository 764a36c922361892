package api

import (
	"errors"

	"rewardbot/service"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrUnauthorized, fiber.StatusForbidden, "unauthorized"},
	{service.ErrAccountBanned, fiber.StatusForbidden, "account_banned"},
	{service.ErrAccountNotFound, fiber.StatusNotFound, "account_not_found"},
	{service.ErrKeyNotFound, fiber.StatusNotFound, "key_not_found"},
	{service.ErrGrantNotFound, fiber.StatusNotFound, "grant_not_found"},
	{service.ErrKeyAlreadyClaimed, fiber.StatusConflict, "key_already_claimed"},
	{service.ErrInsufficientBalance, fiber.StatusConflict, "insufficient_balance"},
	{service.ErrInvalidKeyKind, fiber.StatusBadRequest, "invalid_key_kind"},
	{service.ErrInvalidQuantity, fiber.StatusBadRequest, "invalid_quantity"},
	{service.ErrInvalidIdentity, fiber.StatusBadRequest, "invalid_identity"},
	{service.ErrInvalidSetting, fiber.StatusBadRequest, "invalid_setting"},
	{service.ErrInvalidMessage, fiber.StatusBadRequest, "invalid_message"},
	{service.ErrConcurrentUpdateConflict, fiber.StatusServiceUnavailable, "concurrent_update_conflict"},
}

// errorHandler maps domain errors to distinct statuses and codes
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": "request_error", "message": fe.Message})
	}

	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return c.Status(e.status).JSON(fiber.Map{"error": e.code, "message": err.Error()})
		}
	}

	log.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("Admin API request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal", "message": "internal error"})
}
