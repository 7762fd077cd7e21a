package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghalamif/JointSync/pkg/jointsync"
)

func main() {
	flow, err := jointsync.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	callback := func(batch []jointsync.PlaybackEvent) error {
		for _, ev := range batch {
			fmt.Printf("%s source=%s clip=%s tracks=%d duration=%gs\n",
				ev.AppliedAt.Format(time.RFC3339Nano),
				ev.Source,
				ev.ClipName,
				ev.TrackCount,
				ev.Duration,
			)
		}
		return nil
	}

	if err := flow.Run(ctx, jointsync.StreamOutCallback("stdout", callback)); err != nil && err != context.Canceled {
		log.Fatalf("viewer error: %v", err)
	}
}
