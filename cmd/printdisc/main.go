// Command printdisc is an interactive IPP printer discovery console.
//
// It combines the manual discovery registry with optional mDNS browsing
// and keeps manually added printers across restarts.
//
// Usage:
//
//	printdisc [flags]
//
// Flags:
//
//	-config string   Configuration file path (YAML)
//	-state string    Registry file path (overrides config)
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-event-log string  CBOR event log file (overrides config)
//	-mdns            Enable mDNS browsing (overrides config)
//	-reset           Clear the persisted registry before starting
//
// Interactive Commands:
//
//	add <hostname>  - Probe a hostname and add the printer
//	list            - List registered and discovered printers
//	remove <n>      - Remove registered printer number n
//	start           - Start announcing / mDNS browsing
//	stop            - Stop announcing
//	quit            - Save the registry and exit
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/printkit/printkit-go/cmd/printdisc/interactive"
	"github.com/printkit/printkit-go/pkg/config"
	"github.com/printkit/printkit-go/pkg/discovery"
	"github.com/printkit/printkit-go/pkg/log"
	"github.com/printkit/printkit-go/pkg/persistence"
)

var (
	flagConfig   = flag.String("config", "", "Configuration file path (YAML)")
	flagState    = flag.String("state", "", "Registry file path (overrides config)")
	flagLogLevel = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flagEventLog = flag.String("event-log", "", "CBOR event log file (overrides config)")
	flagMDNS     = flag.Bool("mdns", false, "Enable mDNS browsing (overrides config)")
	flagReset    = flag.Bool("reset", false, "Clear the persisted registry before starting")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "printdisc: %v\n", err)
		os.Exit(1)
	}
	if *flagState != "" {
		cfg.StatePath = *flagState
	}
	if *flagEventLog != "" {
		cfg.EventLog = *flagEventLog
	}
	if *flagMDNS {
		cfg.MDNS.Enabled = true
	}

	slogger := setupLogging(*flagLogLevel)
	logger, closeLog, err := setupEventLog(cfg, slogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "printdisc: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store := persistence.NewPrinterStore(cfg.StatePath)
	if *flagReset {
		if err := store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "printdisc: reset: %v\n", err)
			os.Exit(1)
		}
	}

	// TCP reachability probe behind a TTL cache. Replace with a real IPP
	// capability client to get names and identity tokens.
	cache, err := discovery.NewCapabilityCache(discovery.CacheConfig{
		Source: newDialSource(),
		Logger: logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "printdisc: %v\n", err)
		os.Exit(1)
	}

	manual, err := discovery.NewManualDiscovery(discovery.ManualConfig{
		Source: cache,
		Store:  store,
		Logger: logger,
		Scheme: cfg.Scheme,
		Port:   cfg.Port,
		Paths:  cfg.ProbePaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "printdisc: %v\n", err)
		os.Exit(1)
	}

	var mdns *discovery.MDNSDiscovery
	if cfg.MDNS.Enabled {
		service := discovery.ServiceTypeIPP
		if cfg.MDNS.Secure {
			service = discovery.ServiceTypeIPPS
		}
		mdns = discovery.NewMDNSDiscovery(discovery.MDNSConfig{
			Service:   service,
			Interface: cfg.MDNS.Interface,
			Logger:    logger,
		})
	}

	console, err := interactive.New(manual, mdns, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "printdisc: %v\n", err)
		os.Exit(1)
	}

	// Save the registry on SIGINT/SIGTERM as well as on quit
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		console.Shutdown()
	}()

	console.Run()
	manual.Close()
}

// setupLogging configures the global slog level for console output.
func setupLogging(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// setupEventLog builds the event logger: console always, CBOR file when
// configured.
func setupEventLog(cfg *config.Config, slogger *slog.Logger) (log.Logger, func(), error) {
	console := log.NewSlogAdapter(slogger)
	if cfg.EventLog == "" {
		return console, func() {}, nil
	}

	file, err := log.NewFileLogger(cfg.EventLog)
	if err != nil {
		return nil, nil, fmt.Errorf("open event log: %w", err)
	}
	return log.NewMultiLogger(console, file), func() { _ = file.Close() }, nil
}
