// Command fetchkit is a small command line front end for the fetchkit
// query string codec and JSON request dispatcher.
//
//	fetchkit qs encode page=2 q="go json"
//	fetchkit qs decode '?page=2&q=go%20json'
//	fetchkit get https://api.example.com/items -q page=2 -H 'Authorization: Bearer t'
//	fetchkit post https://api.example.com/items -d '{"name":"widget"}'
//
// Global flags can also be set through FETCHKIT_* environment variables or
// a config file passed with --config.
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

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
