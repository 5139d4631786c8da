// popfiled: a file-based POP3 test server.
//
// Usage:
//
//	popfiled [flags] <port | host:port> <message_file...>
//
// Each message file becomes one mailbox message, addressable by its
// 1-based position. Files that do not exist or lack a blank-line
// header/body separator are reported and skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/popfiled/popfiled/config"
	"github.com/popfiled/popfiled/logger"
	"github.com/popfiled/popfiled/mailbox"
	"github.com/popfiled/popfiled/pkg/metrics"
	"github.com/popfiled/popfiled/server/pop3"
	"github.com/popfiled/popfiled/server/statusapi"
)

func main() {
	// Initialize with application defaults; TOML file and command-line
	// flags are layered on top, flags winning.
	cfg := config.NewDefaultConfig()

	configPath := flag.String("config", "", "Path to TOML configuration file")
	fAddr := flag.String("addr", cfg.Server.Addr, "POP3 listen address, host:port or bare port (overrides config)")
	fName := flag.String("name", cfg.Server.Name, "Server name announced in the banner (overrides config)")
	fLogOutput := flag.String("logoutput", cfg.Logging.Output, "Log output: 'stderr', 'stdout', 'syslog', or a file path (overrides config)")
	fLogLevel := flag.String("loglevel", cfg.Logging.Level, "Log level: 'debug', 'info', 'warn', 'error' (overrides config)")
	fStatusAddr := flag.String("statusaddr", cfg.Server.StatusAddr, "HTTP status endpoint address, empty to disable (overrides config)")
	flag.Usage = usage
	flag.Parse()

	if *configPath != "" {
		if err := config.LoadFromFile(*configPath, &cfg); err != nil {
			log.Fatalf("Error: %v", err)
		}
		log.Printf("Loaded configuration from %s", *configPath)
	}

	// Command-line flags override config file values.
	if isFlagSet("addr") {
		cfg.Server.Addr = *fAddr
	}
	if isFlagSet("name") {
		cfg.Server.Name = *fName
	}
	if isFlagSet("logoutput") {
		cfg.Logging.Output = *fLogOutput
	}
	if isFlagSet("loglevel") {
		cfg.Logging.Level = *fLogLevel
	}
	if isFlagSet("statusaddr") {
		cfg.Server.StatusAddr = *fStatusAddr
	}

	// Positional arguments: [host:]port followed by message file paths.
	applyPositionalArgs(&cfg, flag.Args(), isFlagSet("addr"))

	if cfg.Server.Addr == "" {
		usage()
		os.Exit(2)
	}

	listenAddr, err := config.ParseListenAddr(cfg.Server.Addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		usage()
		os.Exit(1)
	}
	cfg.Server.Addr = listenAddr

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logFile, err := logger.Initialize(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	store := mailbox.Load(cfg.Messages)
	metrics.MessagesLoaded.Set(float64(store.Count()))
	if store.Count() == 0 {
		logger.Warn("serving an empty mailbox; no message files loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)

	popServer := pop3.New(ctx, cfg.Server.Name, cfg.Server.Addr, store)
	go popServer.Start(errChan)

	if cfg.Server.StatusAddr != "" {
		go statusapi.Start(ctx, cfg.Server.StatusAddr, store, errChan)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		popServer.Close()
	case err := <-errChan:
		logger.Fatal("server error", "error", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <port | host:port> <message_file...>\n", os.Args[0])
	flag.PrintDefaults()
}

// applyPositionalArgs layers the positional address and file paths onto
// the configuration. An explicitly set -addr flag wins over the
// positional address; the file paths are always appended.
func applyPositionalArgs(cfg *config.Config, args []string, addrFlagSet bool) {
	if len(args) == 0 {
		return
	}
	if !addrFlagSet {
		cfg.Server.Addr = args[0]
	}
	cfg.Messages = append(cfg.Messages, args[1:]...)
}

// isFlagSet reports whether a flag was explicitly set on the command line.
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
