// Package config loads cadre's connection settings.
//
// # File
//
// Settings live in a TOML file, ~/.config/cadre/config.toml by default:
//
//	backend = "docstore"          # or "postgres"
//	docstore_url = "https://docs.example.com"
//	collection = "programs"
//	api_key = "..."
//	database_url = "postgres://user@localhost/cadre"
//	request_timeout = "10s"
//	log_file = "~/.local/state/cadre/cadre.log"
//	metrics_addr = "127.0.0.1:9464"
//
// A missing file is not an error; defaults apply. Values are trimmed, blank
// values fall back to defaults, and paths starting with ~ are expanded.
//
// # Environment
//
// After the file, CADRE_<KEY> variables (CADRE_API_KEY, CADRE_DATABASE_URL,
// ...) override individual keys. LoadDotEnv reads .env files into the
// environment first so secrets can stay out of the TOML file.
//
// # Validation
//
// Load only reports unreadable files and unparseable values. Validate,
// called before a gateway is built, rejects a backend without its address.
package config
