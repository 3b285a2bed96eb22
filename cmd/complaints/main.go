package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/noah-isme/campus-complaints/cmd/complaints/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := commands.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err) //nolint:errcheck
		stop()
		os.Exit(1)
	}
}
