// Package logger provee un wrapper fino sobre zap con un singleton de proceso,
// propagación por contexto y helpers de campos estándar.
//
// Uso típico:
//
//	logger.Init(logger.Config{Env: "prod", Level: "info", ServiceName: "rescuetrack"})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("CreateCase"))
//	log.Info("case created", logger.CaseID(id))
package logger
