// Package config loads the application configuration from environment
// variables and an optional .env file.
//
// Defaults are declared as struct tags on the partial configuration types
// owned by each package (database, logger, server, storage, sync) and bound
// into Viper by a small reflection walker, so every key is overridable from
// the environment (e.g. DATABASE_HOST, SYNC_AUTO_FIX).
package config
