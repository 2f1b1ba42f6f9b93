package main

import (
	"index-dashboard/src/grpc_control"
	"index-dashboard/src/interfaces"
	"index-dashboard/src/logger"
	"index-dashboard/src/session"
)

// -----------------------------------------------------------------------------

// startServers orchestrates the startup of all server components
func startServers(
	srv interfaces.IDataExchanger,
	control *grpc_control.ControlService,
	scheduler *session.ResetScheduler,
	appLogger *logger.Logger,
) {
	// 1. Dashboard (HTTP + WebSocket)
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	// 2. gRPC health
	go func() {
		if err := control.Start(); err != nil {
			appLogger.Error("gRPC health service failed: %v", err)
		}
	}()

	// 3. Session resets
	if scheduler != nil {
		scheduler.Start()
	}
}

// -----------------------------------------------------------------------------

// stopServers shuts components down in reverse order
func stopServers(
	srv interfaces.IDataExchanger,
	control *grpc_control.ControlService,
	scheduler *session.ResetScheduler,
	appLogger *logger.Logger,
) {
	if scheduler != nil {
		scheduler.Stop()
	}
	control.Stop()
	if err := srv.Stop(); err != nil {
		appLogger.Error("Server shutdown: %v", err)
	}
	appLogger.Info("Shutdown complete")
}
