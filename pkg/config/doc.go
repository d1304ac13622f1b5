// Package config loads typed configuration structs from environment
// variables. A .env file in the working directory is loaded once, then
// struct fields are populated from their `env` tags.
//
//	type ServerConfig struct {
//		Addr string `env:"SERVER_ADDR" envDefault:":8080"`
//	}
//
//	cfg, err := config.Load[ServerConfig]()
package config
