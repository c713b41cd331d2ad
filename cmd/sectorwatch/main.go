// Command sectorwatch tails a running sectorsim debug feed and prints one line per snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/sectorsim/internal/core/observability/log"
	"github.com/zeusync/sectorsim/internal/server"
	"github.com/zeusync/sectorsim/sdk/go/client"
)

func main() {
	cfg := client.DefaultClientConfig()
	flag.StringVar(&cfg.ServerAddr, "addr", cfg.ServerAddr, "host:port of the sectorsim debug feed")
	verbose := flag.Bool("v", false, "log connection events")
	flag.Parse()

	level := log.LevelWarn
	if *verbose {
		level = log.LevelInfo
	}
	logger := log.New(level)
	defer func() { _ = logger.Sync() }()

	c, err := client.NewClient(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sectorwatch:", err)
		os.Exit(1)
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lost := make(chan struct{})
	c.OnEvent(client.EventTypeDisconnected, func(client.Event) { close(lost) })
	c.OnSnapshot(func(s server.Snapshot) {
		fmt.Println(summarize(s))
	})

	if err = c.Connect(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "sectorwatch:", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-lost:
	}
}

func summarize(s server.Snapshot) string {
	rigid, contacts := 0, 0
	for _, b := range s.Bodies {
		if b.Kind == "rigid" {
			rigid++
		}
		contacts += b.Contacts
	}
	return fmt.Sprintf("gen=%d checksum=%016x bodies=%d rigid=%d contacts=%d",
		s.Generation, s.Checksum, len(s.Bodies), rigid, contacts)
}
