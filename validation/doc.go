// Package validation checks configuration structs against their validate
// struct tags.
//
//	type Config struct {
//	    Environment string `mapstructure:"environment" validate:"oneof=development staging production"`
//	}
//	err := validation.Struct(cfg)
//
// Failures are returned as *errors.AppError with code INVALID_INPUT. Field
// names in messages follow the mapstructure tags, so they match the keys
// used in config files.
package validation
