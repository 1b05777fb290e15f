package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dalemusser/sponsorlists/internal/app/bootstrap"
)

func main() {
	startedAt := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx, startedAt); err != nil {
		stop()
		log.Fatal(err)
	}
}
