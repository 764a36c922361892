package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"rewardbot/config"
	"rewardbot/database"
	"rewardbot/events"
	"rewardbot/infrastructure"
	"rewardbot/models"
	"rewardbot/repository"
	"rewardbot/service"

	"github.com/spf13/pflag"
)

const adminUsage = `usage: rewardbot admin <command> [flags]

commands:
  gen-keys  --actor ID [--actor-name NAME] --kind standard|premium --quantity N
  redeem    --identity ID [--name NAME] --code CODE
  lend      --actor ID [--actor-name NAME] --target ID|@name --delta N
  log       --actor ID [--actor-name NAME] [--filter-actor ID] [--limit N]
`

// AdminCommands is the part of the command surface the admin CLI drives
type AdminCommands interface {
	GenerateKeys(ctx context.Context, actor service.Principal, kind string, quantity int) ([]string, error)
	Redeem(ctx context.Context, identity, displayName, code string) (models.ClaimOutcome, error)
	Lend(ctx context.Context, actor service.Principal, target string, delta int64) (int64, error)
	AdminLog(ctx context.Context, actor service.Principal, filter models.AdminLogFilter, limit int) ([]*models.AdminLogEntry, error)
}

// adminRequest is one parsed admin CLI invocation
type adminRequest struct {
	command     string
	actor       string
	actorName   string
	kind        string
	quantity    int
	identity    string
	name        string
	code        string
	target      string
	delta       int64
	filterActor string
	limit       int
}

func parseAdminArgs(args []string) (*adminRequest, error) {
	if len(args) == 0 {
		return nil, errors.New(adminUsage)
	}

	req := &adminRequest{command: args[0]}
	flags := pflag.NewFlagSet("admin "+req.command, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	if req.command != "redeem" {
		flags.StringVar(&req.actorName, "actor-name", "", "username of the actor, for @name authority entries")
	}

	switch req.command {
	case "gen-keys":
		flags.StringVar(&req.actor, "actor", "", "identity issuing the keys")
		flags.StringVar(&req.kind, "kind", string(models.KeyKindStandard), "key kind")
		flags.IntVar(&req.quantity, "quantity", 1, "number of keys")
	case "redeem":
		flags.StringVar(&req.identity, "identity", "", "identity claiming the key")
		flags.StringVar(&req.name, "name", "", "display name for a new account")
		flags.StringVar(&req.code, "code", "", "key to claim")
	case "lend":
		flags.StringVar(&req.actor, "actor", "", "owner identity")
		flags.StringVar(&req.target, "target", "", "identity or @name to adjust")
		flags.Int64Var(&req.delta, "delta", 0, "points to add, negative to remove")
	case "log":
		flags.StringVar(&req.actor, "actor", "", "admin identity reading the log")
		flags.StringVar(&req.filterActor, "filter-actor", "", "only entries by this identity")
		flags.IntVar(&req.limit, "limit", 50, "maximum entries")
	default:
		return nil, fmt.Errorf("unknown admin command %q\n%s", req.command, adminUsage)
	}

	if err := flags.Parse(args[1:]); err != nil {
		return nil, fmt.Errorf("%s: %w", req.command, err)
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("%s: unexpected argument %q", req.command, flags.Arg(0))
	}

	switch {
	case req.command == "redeem" && (req.identity == "" || req.code == ""):
		return nil, errors.New("redeem: --identity and --code are required")
	case req.command == "lend" && (req.target == "" || req.delta == 0):
		return nil, errors.New("lend: --target and a non-zero --delta are required")
	case req.command != "redeem" && req.actor == "":
		return nil, fmt.Errorf("%s: --actor is required", req.command)
	}
	return req, nil
}

// executeAdmin runs a parsed request and prints the result to out
func executeAdmin(ctx context.Context, commands AdminCommands, req *adminRequest, out io.Writer) error {
	actor := service.NewPrincipal(req.actor, req.actorName)

	switch req.command {
	case "gen-keys":
		codes, err := commands.GenerateKeys(ctx, actor, req.kind, req.quantity)
		if err != nil {
			return describeAdminError(err)
		}
		fmt.Fprintln(out, strings.Join(codes, "\n"))

	case "redeem":
		outcome, err := commands.Redeem(ctx, req.identity, req.name, req.code)
		if err != nil {
			return describeAdminError(err)
		}
		if err := service.ClaimError(outcome); err != nil {
			return describeAdminError(err)
		}
		fmt.Fprintf(out, "claimed %s for %d points, balance %d\n", outcome.Code, outcome.Points, outcome.NewBalance)

	case "lend":
		balance, err := commands.Lend(ctx, actor, req.target, req.delta)
		if err != nil {
			return describeAdminError(err)
		}
		fmt.Fprintf(out, "balance of %s is now %d\n", req.target, balance)

	case "log":
		entries, err := commands.AdminLog(ctx, actor, models.AdminLogFilter{Actor: req.filterActor}, req.limit)
		if err != nil {
			return describeAdminError(err)
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", e.ID, e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"), e.ActorIdentity, e.Action)
		}
	}
	return nil
}

// describeAdminError prefixes each domain error kind with a stable label
func describeAdminError(err error) error {
	labels := []struct {
		err   error
		label string
	}{
		{service.ErrUnauthorized, "not permitted"},
		{service.ErrAccountNotFound, "no such account"},
		{service.ErrKeyNotFound, "no such key"},
		{service.ErrKeyAlreadyClaimed, "key already claimed"},
		{service.ErrAccountBanned, "account banned"},
		{service.ErrInvalidKeyKind, "invalid key kind"},
		{service.ErrInvalidQuantity, "invalid quantity"},
		{service.ErrConcurrentUpdateConflict, "ledger busy, retry"},
	}
	for _, l := range labels {
		if errors.Is(err, l.err) {
			return fmt.Errorf("%s: %w", l.label, err)
		}
	}
	return err
}

// RunAdmin executes one admin CLI command against the database
func RunAdmin(ctx context.Context, args []string, out io.Writer) error {
	req, err := parseAdminArgs(args)
	if err != nil {
		return err
	}

	cfg := config.Get()
	ConfigureLogging(cfg)

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	stack := BuildStack(cfg, repository.NewUnitOfWorkFactory(db, events.NewBus()), infrastructure.NoopSettingsCache{})
	return executeAdmin(ctx, stack.Rewards, req, out)
}
