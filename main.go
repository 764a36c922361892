package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rewardbot/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch {
	case len(os.Args) > 1 && os.Args[1] == "migrate":
		err = cmd.RunMigrate(os.Args[2:], os.Stdout)
	case len(os.Args) > 1 && os.Args[1] == "admin":
		err = cmd.RunAdmin(ctx, os.Args[2:], os.Stdout)
	default:
		err = cmd.Run(ctx)
	}

	if err != nil {
		log.WithError(err).Fatal("rewardbot exited with an error")
	}
}
