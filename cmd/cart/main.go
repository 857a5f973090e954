package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fjod/go_cart/cart-store/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		// reported failures were already printed by the notifier
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
