// Package logging builds the process logger: a *slog.Logger whose handler
// is a zap core (JSON or console encoding, leveled), writing to stderr so
// stdout stays free for the MCP stdio transport.
//
//	logger, err := logging.New(logging.Options{Level: "debug", Format: "console"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//	logger.Info("server started", "tools", 8)
package logging
