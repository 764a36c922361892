package cmd

import (
	"fmt"
	"io"
	"strconv"

	"rewardbot/config"
	"rewardbot/database"
)

// RunMigrate handles "migrate up|down [n]|status"
func RunMigrate(args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: rewardbot migrate [up|down [n]|status]")
	}

	cfg := config.Get()
	ConfigureLogging(cfg)
	url := cfg.GetDatabaseURL()

	switch args[0] {
	case "up":
		return database.MigrateUp(url)
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid steps value %q", args[1])
			}
			steps = n
		}
		return database.MigrateDown(url, steps)
	case "status":
		status, err := database.MigrateStatus(url)
		if err != nil {
			return err
		}
		if !status.Applied {
			fmt.Fprintln(out, "no migrations applied")
			return nil
		}
		fmt.Fprintf(out, "version %d (dirty: %t)\n", status.Version, status.Dirty)
		return nil
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
