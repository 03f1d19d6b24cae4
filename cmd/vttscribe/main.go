package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vttscribe/internal/failure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		switch failure.Classify(err) {
		case failure.KindUsage:
			// usage text already printed
		case failure.KindCanceled:
			fmt.Fprintln(os.Stderr, "Interrupted")
		default:
			fmt.Fprintln(os.Stderr, "Error:", err)
			if hint := failure.Hint(err); hint != "" {
				fmt.Fprintln(os.Stderr, "Hint:", hint)
			}
		}
		stop()
		os.Exit(1)
	}
}
