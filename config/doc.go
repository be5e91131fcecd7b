// Package config loads depkit application configuration.
//
// Values come from an optional YAML file, an optional .env file and the
// process environment, in increasing order of precedence. Environment keys
// carry a prefix (DEPKIT_ by default) and use underscores for nesting:
//
//	DEPKIT_LOGGING_LEVEL=debug
//	DEPKIT_DEPENDENCIES_SILENT_MISMATCHES=true
//
// # Usage
//
//	cfg, err := config.Load("depkit-demo")
//	if err != nil {
//	    return err
//	}
//	logger.Init(cfg.Logging)
//	_ = di.Configure(cfg.Dependencies)
package config
