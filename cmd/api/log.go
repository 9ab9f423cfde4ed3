package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"payroll/internal/database"
	"payroll/internal/handler"
	"payroll/internal/scheduler"
	"payroll/internal/service"
	"payroll/internal/websocket"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter writes to standard output and, once initLogRotator has run, to
// the log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	if logRotator == nil {
		return len(p), nil
	}
	return logRotator.Write(p)
}

// Loggers per subsystem. A single backend logger is created and every
// subsystem logger writes to it. When adding a subsystem, add its logger
// here and to subsystemLoggers.
var (
	backendLog = slog.NewBackend(logWriter{})

	// logRotator is nil unless a log file is configured. It should be
	// closed on shutdown.
	logRotator *rotator.Rotator

	log       = backendLog.Logger("API")
	svcLog    = backendLog.Logger("SVC")
	hndlLog   = backendLog.Logger("HNDL")
	wsLog     = backendLog.Logger("WS")
	cronLog   = backendLog.Logger("CRON")
	dbLog     = backendLog.Logger("DB")
	sentryLog = backendLog.Logger("SNTR")
)

func init() {
	service.UseLogger(svcLog)
	handler.UseLogger(hndlLog)
	websocket.UseLogger(wsLog)
	scheduler.UseLogger(cronLog)
	database.UseLogger(dbLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]slog.Logger{
	"API":  log,
	"SVC":  svcLog,
	"HNDL": hndlLog,
	"WS":   wsLog,
	"CRON": cronLog,
	"DB":   dbLog,
	"SNTR": sentryLog,
}

// initLogRotator makes the backend also write to logFile, rolling it over
// into the same directory.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	logRotator = r
	return nil
}

// setLogLevel sets the logging level for provided subsystem. Invalid
// subsystems are ignored.
func setLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := slog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.
func setLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, logLevel)
	}
}

// supportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func supportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

func validLogLevel(logLevel string) bool {
	_, ok := slog.LevelFromString(logLevel)
	return ok
}

// parseAndSetDebugLevels accepts either a single level applied to every
// subsystem ("debug") or a comma separated list of subsystem=level pairs,
// optionally led by a default ("info,SVC=debug,DB=warn").
func parseAndSetDebugLevels(debugLevel string) error {
	for _, part := range strings.Split(debugLevel, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if !strings.Contains(part, "=") {
			if !validLogLevel(part) {
				return fmt.Errorf("the specified debug level [%v] is invalid", part)
			}
			setLogLevels(part)
			continue
		}

		fields := strings.Split(part, "=")
		if len(fields) != 2 {
			return fmt.Errorf("the specified debug level has an invalid format [%v]", part)
		}
		subsysID, logLevel := fields[0], fields[1]

		if _, exists := subsystemLoggers[subsysID]; !exists {
			return fmt.Errorf("the specified subsystem [%v] is invalid -- supported subsystems %v",
				subsysID, supportedSubsystems())
		}
		if !validLogLevel(logLevel) {
			return fmt.Errorf("the specified debug level [%v] is invalid", logLevel)
		}
		setLogLevel(subsysID, logLevel)
	}
	return nil
}
