// Package config loads the posters configuration file.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/posters/config.toml
//  3. If the file doesn't exist, use Default()
//  4. Missing or blank fields keep their defaults
//
// # TOML Format
//
//	api_base_url = "https://posters-backend-ibn4.onrender.com/"
//	request_timeout_seconds = 90
//	requests_per_second = 5
//	max_retries = 2
//	listen_addr = "127.0.0.1:49453"   # "" disables the deep-link listener
//	metrics_addr = ""                 # e.g. "127.0.0.1:9464" to serve /metrics
//	download_dir = "~/.local/share/posters/wallpapers"
//	gallery_dir = "~/Pictures/Posters"
//	share_base_url = "https://arpg2418.github.io/posters-redirect/"
//
//	[log]
//	level = "info"
//	file = "~/.local/state/posters/posters.log"
//
//	[cache]
//	redis_addr = ""                   # e.g. "localhost:6379"
//	redis_db = 0
//	ttl_seconds = 600
//
// Paths accept a leading ~ and are returned absolute. Invalid TOML and
// out-of-range numbers are errors; a missing file is not.
package config
