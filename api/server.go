package api

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"rewardbot/models"
	"rewardbot/service"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const (
	actorHeader     = "X-Actor-ID"
	actorNameHeader = "X-Actor-Name"
	localActor      = "actor"
)

// Commands is the part of application.Rewards the admin API exposes
type Commands interface {
	GenerateKeys(ctx context.Context, actor service.Principal, kind string, quantity int) ([]string, error)
	Redeem(ctx context.Context, identity, displayName, code string) (models.ClaimOutcome, error)
	Lend(ctx context.Context, actor service.Principal, target string, delta int64) (int64, error)
	SetBalance(ctx context.Context, actor service.Principal, target string, balance int64) (int64, error)
	BanAccount(ctx context.Context, actor service.Principal, target string) error
	UnbanAccount(ctx context.Context, actor service.Principal, target string) error
	AdminLog(ctx context.Context, actor service.Principal, filter models.AdminLogFilter, limit int) ([]*models.AdminLogEntry, error)
	Dashboard(ctx context.Context, actor service.Principal) (*models.Dashboard, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
	SetSetting(ctx context.Context, actor service.Principal, key models.SettingKey, value int64) error
	Settings(ctx context.Context, actor service.Principal) (map[models.SettingKey]int64, error)
	GrantAdmin(ctx context.Context, actor service.Principal, target, displayName string, role models.Role) error
	RevokeAdmin(ctx context.Context, actor service.Principal, target string) error
	ListGrants(ctx context.Context, actor service.Principal) ([]*models.AdminGrant, error)
}

// Server is the admin HTTP API. Every /v1 request needs the bearer token and
// names the acting identity in X-Actor-ID, optionally with its username in
// X-Actor-Name for @username authority entries. Privilege is then decided by
// the same authorization rules the bot uses.
type Server struct {
	app      *fiber.App
	commands Commands
	token    string
}

func NewServer(commands Commands, token string) *Server {
	s := &Server{
		commands: commands,
		token:    token,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "rewardbot-admin",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})
	s.routes()
	return s
}

// App exposes the fiber app, mainly for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	log.WithField("address", addr).Info("Admin API listening")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := s.app.Group("/v1", s.authenticate)
	v1.Post("/keys", s.generateKeys)
	v1.Post("/redeem", s.redeem)
	v1.Post("/accounts/:identity/lend", s.lend)
	v1.Put("/accounts/:identity/balance", s.setBalance)
	v1.Post("/accounts/:identity/ban", s.ban)
	v1.Delete("/accounts/:identity/ban", s.unban)
	v1.Get("/admin-log", s.adminLog)
	v1.Get("/dashboard", s.dashboard)
	v1.Get("/leaderboard", s.leaderboard)
	v1.Get("/settings", s.settings)
	v1.Put("/settings/:key", s.setSetting)
	v1.Get("/grants", s.listGrants)
	v1.Put("/grants/:identity", s.grant)
	v1.Delete("/grants/:identity", s.revoke)
}

func (s *Server) authenticate(c *fiber.Ctx) error {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok || s.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or missing API token")
	}

	actor := strings.TrimSpace(c.Get(actorHeader))
	if actor == "" {
		return fiber.NewError(fiber.StatusBadRequest, actorHeader+" header is required")
	}
	c.Locals(localActor, service.NewPrincipal(actor, c.Get(actorNameHeader)))
	return c.Next()
}

func actorOf(c *fiber.Ctx) service.Principal {
	actor, _ := c.Locals(localActor).(service.Principal)
	return actor
}
