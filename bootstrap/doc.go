// Package bootstrap assembles a tabkit application from its configuration
// and runs it.
//
// New wires the logger, telemetry, storage backend, recipe runner and HTTP
// server in that order. Run serves until a signal or context cancellation
// and then shuts down gracefully; RunTask runs a one-shot task against the
// same wiring instead of serving.
//
//	app, err := bootstrap.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
//
// Storage backends register themselves on import, so the binary must
// import the ones it supports (storage/local, storage/s3).
package bootstrap
