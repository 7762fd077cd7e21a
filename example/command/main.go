package main

import (
	"context"
	"log"
	"math"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghalamif/JointSync"
)

// Sweeps joint_1 back and forth by publishing poses from inside the process.
func main() {
	cfg := jointsync.DefaultConfig()
	cfg.Source.Dir = "../../data/www"

	col, publish := jointsync.NewChannelCollector()

	v, err := jointsync.NewViewer(cfg, jointsync.WithCollector(col))
	if err != nil {
		log.Fatalf("build viewer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := v.Start(ctx); err != nil {
		log.Fatalf("start viewer: %v", err)
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := v.Shutdown(shutdownCtx); err != nil {
				log.Printf("shutdown: %v", err)
			}
			return
		case <-ticker.C:
			angle := math.Sin(time.Since(start).Seconds()) * math.Pi / 2
			err := publish(jointsync.Command{
				Command:        jointsync.CommandJointPositions,
				JointNames:     []string{"joint_1"},
				JointPositions: []float64{angle},
			})
			if err != nil {
				log.Printf("publish: %v", err)
			}
		}
	}
}
