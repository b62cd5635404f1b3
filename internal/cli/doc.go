// Package cli provides command-line interface setup and configuration
// for phonetext. It handles flag parsing, command creation, logging and
// configuration management using cobra, viper and godotenv.
package cli
