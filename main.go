package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ostlog/go-freightgate/internal/config"
	"github.com/ostlog/go-freightgate/internal/engine"
	"github.com/ostlog/go-freightgate/internal/server"
	"github.com/ostlog/go-freightgate/internal/transport"
	"github.com/ostlog/go-freightgate/internal/types"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: freightgate <command> [flags]")
		fmt.Fprintln(os.Stderr, "Commands: serve, quote, collect")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		os.Exit(cmdServe())
	case "quote":
		os.Exit(cmdOneShot("quote"))
	case "collect":
		os.Exit(cmdOneShot("collect"))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Commands: serve, quote, collect")
		os.Exit(1)
	}
}

func cmdServe() int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg := config.DefaultFromEnv()

	fs.StringVar(&cfg.Host, "host", cfg.Host, "Bind host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Listen port")
	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "Remote quotation service endpoint")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Dump remote reply bodies to stderr")
	fs.BoolVar(&cfg.DefaultCollect, "default-collect", cfg.DefaultCollect, "Request collection when the payload has no coletar flag")
	timeoutSec := fs.Int("timeout", int(cfg.Timeout/time.Second), "Remote call timeout in seconds")
	fs.Parse(os.Args[2:])
	cfg.Timeout = time.Duration(*timeoutSec) * time.Second

	srv := server.New(cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	slog.Info("freightgate starting", "host", cfg.Host, "port", cfg.Port, "endpoint", cfg.Endpoint)
	if err := srv.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
		slog.Error("server error", "error", err)
		return 1
	}
	return 0
}

// cmdOneShot runs a single quotation or collection request: the client payload
// is read from stdin and the engine result printed to stdout.
func cmdOneShot(op string) int {
	fs := flag.NewFlagSet(op, flag.ExitOnError)
	cfg := config.DefaultFromEnv()

	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "Remote quotation service endpoint")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Dump remote reply bodies to stderr")
	fs.BoolVar(&cfg.DefaultCollect, "default-collect", cfg.DefaultCollect, "Request collection when the payload has no coletar flag")
	timeoutSec := fs.Int("timeout", int(cfg.Timeout/time.Second), "Remote call timeout in seconds")
	fs.Parse(os.Args[2:])
	cfg.Timeout = time.Duration(*timeoutSec) * time.Second

	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		slog.Error("failed to read payload from stdin", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.New(cfg, transport.NewClient(cfg.Endpoint, cfg.Verbose, cfg.Debug))

	var out *types.Outcome
	if op == "collect" {
		out = eng.RequestCollection(ctx, body)
	} else {
		out = eng.Quote(ctx, body)
	}

	data, err := json.MarshalIndent(out.Payload(), "", "  ")
	if err != nil {
		slog.Error("failed to render result", "error", err)
		return 1
	}
	fmt.Println(string(data))

	if out.State != types.StateSuccess {
		return 1
	}
	return 0
}
