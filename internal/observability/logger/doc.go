// Package logger provee el logger estructurado (zap) de littlejohn.
//
// Uso típico:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: "info"})
//	defer logger.Sync()
//
//	log := logger.Named("oauth")
//	log.Info("provider configured", logger.Provider("google"))
//
// Los middlewares HTTP inyectan un logger "scoped" en el contexto del
// request; cualquier capa puede recuperarlo con logger.From(ctx).
package logger
