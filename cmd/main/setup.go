package main

import (
	"index-dashboard/src/chart"
	"index-dashboard/src/config"
	"index-dashboard/src/data_source/yahoo"
	"index-dashboard/src/grpc_control"
	"index-dashboard/src/interfaces"
	"index-dashboard/src/logger"
	"index-dashboard/src/models"
	"index-dashboard/src/network"
	"index-dashboard/src/reference"
	"index-dashboard/src/server"
	"index-dashboard/src/session"
	"index-dashboard/src/shell"
	"index-dashboard/src/utils"
)

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig) interfaces.INetworkManager {
	networkLogger := logger.NewLogger(config, "NetworkManager")
	return network.NewAsyncNetworkManager(config, networkLogger)
}

// -----------------------------------------------------------------------------

// setupSession creates the session cache in front of the reference loader
func setupSession(config *models.MConfig, networkManager interfaces.INetworkManager) *session.Session {
	loader := reference.NewLoader(config.Reference, networkManager, logger.NewLogger(config, "ReferenceLoader"))
	return session.NewSession(loader, logger.NewLogger(config, "Session"))
}

// -----------------------------------------------------------------------------

// setupShell assembles the render pipeline
func setupShell(conf *config.Config, sess *session.Session, networkManager interfaces.INetworkManager) *shell.Shell {
	source := yahoo.NewYahooFinanceSource(conf.MConfig, networkManager, logger.NewLogger(conf.MConfig, "YahooFinance"))
	renderer := chart.NewRenderer(conf.Chart)
	calendar := utils.GetCalendar(utils.DefaultMIC)
	return shell.NewShell(sess, source, renderer, calendar, conf.MinDate(), logger.NewLogger(conf.MConfig, "Shell"))
}

// -----------------------------------------------------------------------------

// setupServer creates the HTTP and websocket front end
func setupServer(config *models.MConfig, dashboard *shell.Shell) *server.DashboardServer {
	return server.NewDashboardServer(config, dashboard, logger.NewLogger(config, "DashboardServer"))
}

// -----------------------------------------------------------------------------

// setupControl creates the gRPC health service
func setupControl(config *models.MConfig, sess *session.Session) *grpc_control.ControlService {
	return grpc_control.NewControlService(config, sess, logger.NewLogger(config, "ControlService"))
}

// -----------------------------------------------------------------------------

// setupScheduler resets the session on the configured schedule and tells
// websocket clients about it. No schedule means no scheduler.
func setupScheduler(config *models.MConfig, sess *session.Session, srv *server.DashboardServer) (*session.ResetScheduler, error) {
	sess.OnReset(srv.NotifySessionReset)
	if config.Session.ResetCron == "" {
		return nil, nil
	}
	return session.NewResetScheduler(sess, config.Session.ResetCron, logger.NewLogger(config, "ResetScheduler"))
}
