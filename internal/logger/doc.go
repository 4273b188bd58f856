// Package logger provides the structured logger used by the langkeys CLI.
//
// It is a thin layer over Zap. Console encoding is the default; json is
// available for CI pipelines that collect logs. Log entries always go to
// stderr, the scan report is written to stdout.
//
// # Usage
//
//	log, _ := logger.New(logger.Config{Level: "info"})
//	log.Warn("language file not loaded", zap.Error(err))
//
//	// While processing a source file:
//	logger.WithFile(log, "src/Form.cs").Debug("lookup call", zap.String("key", key))
package logger
