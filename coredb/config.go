package coredb

import "bukken.rehub.jp/internal/appconf"

// Config holds configuration options for the Client
type Config struct {
	// DBPath is the path to the SQLite database file. Use ":memory:" for tests.
	DBPath string
	// Env is the environment name: development, test, production.
	Env appconf.Environment
	// verbose enables verbose logging of database operations.
	verbose bool
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	return Config{
		DBPath:  dbPath,
		Env:     env,
		verbose: verbose,
	}
}
