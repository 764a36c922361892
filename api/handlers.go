package api

import (
	"time"

	"rewardbot/models"

	"github.com/gofiber/fiber/v2"
)

type generateKeysRequest struct {
	Kind     string `json:"kind"`
	Quantity int    `json:"quantity"`
}

type redeemRequest struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"display_name"`
	Code        string `json:"code"`
}

type grantRequest struct {
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
}

type amountRequest struct {
	Delta   int64 `json:"delta"`
	Balance int64 `json:"balance"`
	Value   int64 `json:"value"`
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}

func (s *Server) generateKeys(c *fiber.Ctx) error {
	var req generateKeysRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	codes, err := s.commands.GenerateKeys(c.UserContext(), actorOf(c), req.Kind, req.Quantity)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"codes": codes})
}

// redeem answers every claim status with its own HTTP status
func (s *Server) redeem(c *fiber.Ctx) error {
	var req redeemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	outcome, err := s.commands.Redeem(c.UserContext(), req.Identity, req.DisplayName, req.Code)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	switch outcome.Status {
	case models.ClaimStatusNotFound:
		status = fiber.StatusNotFound
	case models.ClaimStatusAlreadyClaimed:
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{
		"status":      outcome.Status,
		"code":        outcome.Code,
		"kind":        outcome.Kind,
		"points":      outcome.Points,
		"new_balance": outcome.NewBalance,
	})
}

func (s *Server) lend(c *fiber.Ctx) error {
	var req amountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	balance, err := s.commands.Lend(c.UserContext(), actorOf(c), c.Params("identity"), req.Delta)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"identity": c.Params("identity"), "balance": balance})
}

func (s *Server) setBalance(c *fiber.Ctx) error {
	var req amountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	balance, err := s.commands.SetBalance(c.UserContext(), actorOf(c), c.Params("identity"), req.Balance)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"identity": c.Params("identity"), "balance": balance})
}

func (s *Server) ban(c *fiber.Ctx) error {
	if err := s.commands.BanAccount(c.UserContext(), actorOf(c), c.Params("identity")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) unban(c *fiber.Ctx) error {
	if err := s.commands.UnbanAccount(c.UserContext(), actorOf(c), c.Params("identity")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) adminLog(c *fiber.Ctx) error {
	filter := models.AdminLogFilter{Actor: c.Query("actor")}
	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "since must be RFC 3339")
		}
		filter.Since = t
	}

	entries, err := s.commands.AdminLog(c.UserContext(), actorOf(c), filter, c.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"entries": toAdminLogResponse(entries)})
}

func (s *Server) dashboard(c *fiber.Ctx) error {
	dashboard, err := s.commands.Dashboard(c.UserContext(), actorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(toDashboardResponse(dashboard))
}

func (s *Server) leaderboard(c *fiber.Ctx) error {
	entries, err := s.commands.Leaderboard(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"entries": toLeaderboardResponse(entries)})
}

func (s *Server) settings(c *fiber.Ctx) error {
	values, err := s.commands.Settings(c.UserContext(), actorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(values)
}

func (s *Server) setSetting(c *fiber.Ctx) error {
	var req amountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	key := models.SettingKey(c.Params("key"))
	if err := s.commands.SetSetting(c.UserContext(), actorOf(c), key, req.Value); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"key": key, "value": req.Value})
}

func (s *Server) listGrants(c *fiber.Ctx) error {
	grants, err := s.commands.ListGrants(c.UserContext(), actorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"grants": toGrantResponse(grants)})
}

func (s *Server) grant(c *fiber.Ctx) error {
	var req grantRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Role == "" {
		req.Role = models.RoleAdmin
	}

	identity := c.Params("identity")
	if err := s.commands.GrantAdmin(c.UserContext(), actorOf(c), identity, req.DisplayName, req.Role); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"identity": identity, "role": req.Role})
}

func (s *Server) revoke(c *fiber.Ctx) error {
	if err := s.commands.RevokeAdmin(c.UserContext(), actorOf(c), c.Params("identity")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
