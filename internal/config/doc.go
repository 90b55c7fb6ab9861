// Package config loads Stockroom's TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/stockroom/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - API URL: https://dummyjson.com
//   - Page size: 20 (capped at 100)
//   - Request timeout: 10s
//   - Requests per second: 5
//   - Auto-refresh: off
//   - Log file: ~/.local/state/stockroom/stockroom.log
//   - Log level: info
//   - Session file: ~/.local/state/stockroom/session.toml
//
// # TOML Format
//
//	api_url = "https://dummyjson.com"
//	page_size = 20
//	request_timeout = "10s"
//	requests_per_second = 5
//	refresh_every = "1m"
//	log_file = "~/.local/state/stockroom/stockroom.log"
//	log_level = "debug"
//	session_path = "~/.local/state/stockroom/session.toml"
//
// Every field is optional. Durations use Go duration syntax and tilde
// expansion is applied to paths.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors (except a
// missing file), TOML syntax errors and unparseable durations. A missing
// file is not an error.
package config
