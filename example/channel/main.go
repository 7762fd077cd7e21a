package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghalamif/JointSync"
)

func main() {
	flow, err := jointsync.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, batches, closeBatches := jointsync.NewChannelSink("fanout", 32)
	defer closeBatches()

	go fanoutWorker("playback", batches)

	if err := flow.Run(ctx, jointsync.StreamOutHistory(sink)); err != nil && err != context.Canceled {
		log.Fatalf("viewer error: %v", err)
	}
}

func fanoutWorker(name string, batches <-chan []jointsync.PlaybackEvent) {
	for batch := range batches {
		fmt.Printf("[%s] %d clips applied, last %q at %s\n",
			name, len(batch), batch[len(batch)-1].ClipName, time.Now().Format(time.RFC3339))
	}
}
