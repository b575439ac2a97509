// Command bookshelf migrates, seeds and lists the bookshelf database.
//
// Usage:
//
//	bookshelf [-c config.json] [-driver sqlite|postgres] [-d dsn] <command> [args]
//
// Commands: migrate, seed, authors [-prefix P], books [-title T].
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "bookshelf:", err)
		stop()
		os.Exit(1)
	}
}
