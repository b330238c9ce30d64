package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/roomgrid/internal/cli"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
)

// Exit codes beyond the usual 0/1.
const (
	exitInvalid     = 2
	exitGeneration  = 3
	exitInterrupted = 130 // shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cli.New(os.Stderr, cli.LogInfo).RootCommand()
	root.SilenceErrors = true

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	fmt.Fprintln(os.Stderr, "Error:", apperr.UserMessage(err))
	switch {
	case apperr.IsInvalid(err):
		return exitInvalid
	case apperr.IsGeneration(err):
		return exitGeneration
	}
	return 1
}
