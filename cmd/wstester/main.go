package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"wstester/internal/payload"
	"wstester/internal/probe"
	"wstester/internal/shared/config"
	"wstester/internal/shared/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var rep reportedError
		if !errors.As(err, &rep) {
			logger.Error().Err(err).Msg("wstester failed")
		}
		stop()
		os.Exit(1)
	}
}

// reportedError marks a failure already written to stderr before the logger existed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// run wires config, logging and the probe together. Only the received
// message is written to stdout.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("wstester", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "configs/wstester.ini", "Path to ini config file (optional)")
		urlFlag    = fs.String("url", "", "WebSocket URL to connect to")
		presetFlag = fs.String("preset", "", "Built-in payload: "+strings.Join(payload.Names(), "|"))
		textFlag   = fs.String("payload", "", "Literal payload, overrides -preset")
		socksFlag  = fs.String("socks", "", "SOCKS5 upstream host:port")
		levelFlag  = fs.String("log-level", "", "Log level (debug, info, warn, error)")
		timeout    = fs.Duration("handshake-timeout", 0, "Handshake timeout; the exchange itself never times out")
	)
	if err := fs.Parse(args); err != nil {
		return reportedError{err}
	}

	// 1. 默认值 < ini < 环境变量
	cfg := config.Default()
	if err := config.LoadIni(cfg, *configPath); err != nil {
		fmt.Fprintf(stderr, "Fatal: Failed to load config file '%s': %v\n", *configPath, err)
		return reportedError{err}
	}

	// 2. 命令行参数优先级最高
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	// -preset alone must not lose to a payload from the ini file or env.
	if set["preset"] && !set["payload"] {
		cfg.Payload = ""
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.URL = *urlFlag
		case "preset":
			cfg.Preset = *presetFlag
		case "payload":
			cfg.Payload = *textFlag
		case "socks":
			cfg.SocksAddr = *socksFlag
		case "log-level":
			cfg.Level = *levelFlag
		case "handshake-timeout":
			cfg.HandshakeTimeout = *timeout
		}
	})

	if err := logger.Init(cfg.LogConf, stderr); err != nil {
		fmt.Fprintf(stderr, "Fatal: Failed to initialize logger: %v\n", err)
		return reportedError{err}
	}

	text, err := payload.Resolve(cfg.Preset, cfg.Payload)
	if err != nil {
		return err
	}

	p, err := probe.New(cfg.ProbeConf)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := p.Run(ctx, text)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, res.ReplyText())
	logger.Debug().Str("run_id", res.RunID).Dur("elapsed", time.Since(start)).Msg("done")
	return nil
}
