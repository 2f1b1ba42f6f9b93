package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"index-dashboard/src/config"
	"index-dashboard/src/logger"
)

// -----------------------------------------------------------------------------

func main() {
	// 1. Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// 2. Load config
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	appLogger := logger.NewLogger(conf.MConfig, conf.Name)

	// 4. Setup Components
	networkManager := setupNetwork(conf.MConfig)
	sess := setupSession(conf.MConfig, networkManager)
	dashboard := setupShell(conf, sess, networkManager)
	srv := setupServer(conf.MConfig, dashboard)
	control := setupControl(conf.MConfig, sess)

	// 5. Session reset schedule
	scheduler, err := setupScheduler(conf.MConfig, sess, srv)
	if err != nil {
		appLogger.Critical("Invalid session reset schedule: %v", err)
	}

	// 6. Start Servers
	startServers(srv, control, scheduler, appLogger)

	// 7. Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	stopServers(srv, control, scheduler, appLogger)
}
