package main

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ghalamif/JointSync"
)

//go:embed assets/banner_color.ansi
var bannerColor string

//go:embed assets/banner_plain.txt
var bannerPlain string

func main() {
	fmt.Print(selectBanner())
	fmt.Println()
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "send":
		err = sendCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("jointsync %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to viewer configuration file (defaults serve ./data/www)")
	noUpdate := fs.Bool("noupdate", false, "Do not watch the trajectory files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := jointsync.DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = jointsync.LoadConfig(*cfgPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if *noUpdate {
		cfg.Watch.NoUpdate = true
	}

	flow, err := jointsync.ConfFromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("serving commands on %s, metrics on %s", cfg.HTTP.Addr, cfg.Metrics.Addr)
	return flow.Run(ctx)
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := jointsync.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good ✅\n", *cfgPath)
	return nil
}

func selectBanner() string {
	if os.Getenv("NO_COLOR") != "" {
		return bannerPlain
	}
	return bannerColor
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

var statKeys = []string{
	"jointsync_changes_total",
	"jointsync_scene_loads_total",
	"jointsync_commands_total",
	"jointsync_commands_rejected_total",
	"jointsync_active_tracks",
	"jointsync_task_queue_length",
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := scanMetrics(resp.Body, statKeys)

	fmt.Printf("[%s] changes=%g loads=%g commands=%g rejected=%g tracks=%g queue=%g\n",
		time.Now().Format(time.RFC3339),
		targets["jointsync_changes_total"],
		targets["jointsync_scene_loads_total"],
		targets["jointsync_commands_total"],
		targets["jointsync_commands_rejected_total"],
		targets["jointsync_active_tracks"],
		targets["jointsync_task_queue_length"],
	)
	return nil
}

func scanMetrics(r io.Reader, keys []string) map[string]float64 {
	targets := make(map[string]float64, len(keys))
	for _, k := range keys {
		targets[k] = 0
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %f", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	return targets
}

func sendCommand(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080/command", "Command intake endpoint")
	file := fs.String("file", "", "JSON command file ('-' for stdin)")
	pose := fs.String("pose", "", "Joint pose as name=value pairs, e.g. joint_1=0.5,joint_2=-1.2")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var body []byte
	switch {
	case *file == "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		body = b
	case *file != "":
		b, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		body = b
	case *pose != "":
		cmd, err := parsePose(*pose)
		if err != nil {
			return err
		}
		if body, err = json.Marshal(cmd); err != nil {
			return err
		}
	default:
		return fmt.Errorf("one of -file or -pose is required")
	}

	resp, err := http.Post(*url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s %s", resp.Status, out)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("command rejected")
	}
	return nil
}

func parsePose(pairs string) (*jointsync.Command, error) {
	cmd := &jointsync.Command{Command: jointsync.CommandJointPositions}
	for _, pair := range strings.Split(pairs, ",") {
		name, raw, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid pose entry %q", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("joint %s: %w", name, err)
		}
		cmd.JointNames = append(cmd.JointNames, name)
		cmd.JointPositions = append(cmd.JointPositions, v)
	}
	return cmd, nil
}

func printUsage() {
	fmt.Printf(`JointSync CLI

Usage:
  jointsync <command> [flags]

Commands:
  run        Start the viewer sync engine (watch, load, compile, serve commands)
  validate   Load and validate a config file without starting the viewer
  stats      Poll the Prometheus metrics endpoint and print live counters
  send       Post an override command to a running viewer

Examples:
  jointsync run -config ./data/config.yaml
  jointsync run -noupdate
  jointsync validate -config ./data/config.yaml
  jointsync stats -url http://localhost:9100/metrics -interval 1s
  jointsync send -pose joint_1=0.5,joint_2=-1.2
  jointsync send -file ./trajectory_command.json
`)
}
