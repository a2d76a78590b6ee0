package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arthur-debert/dotsync/internal/cli"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/style"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Validation problems were already listed one by one
		if !errors.IsErrorCode(err, errors.ErrValidation) {
			fmt.Fprintln(os.Stderr, style.NewTerminalRenderer().RenderError(err))
		}
		stop()
		os.Exit(1)
	}
}
