// Package config loads environment-based configuration structs.
//
// All configuration in this service is environment-sourced: each component
// declares a struct with `env` and `envDefault` tags and loads it through
// Load or MustLoad at bootstrap. A local .env file, when present, is applied
// once before the first parse to simplify development setups.
//
// # Usage
//
//	type MongoConfig struct {
//		ConnectionURL string `env:"MONGODB_URL,required"`
//	}
//
//	var cfg MongoConfig
//	config.MustLoad(&cfg)
//
// Errors are wrapped with package sentinels (ErrParsingConfig, ErrNilPointer)
// and can be inspected with errors.Is.
package config
