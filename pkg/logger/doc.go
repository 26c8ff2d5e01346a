// Package logger builds log/slog loggers for the service.
//
// New applies functional options on top of production-safe defaults (JSON,
// info level, stdout). WithEnvironment switches to readable text output at
// debug level outside production. Context extractors add request-scoped
// attributes such as the request id at log time.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "accountd"),
//	    logger.WithContextExtractors(logger.RequestIDExtractor(middleware.GetReqID)),
//	)
//	log.InfoContext(ctx, "user registered", logger.UserID(id.String()), logger.Email(email))
package logger
