// Package app is the composition root for posters.
//
// # Overview
//
// Run wires configuration, logging, the backend client, the optional Redis
// response cache, the pager, the downloader and the wallpaper setter, then
// runs these tasks in one errgroup:
//
//   - the Bubble Tea browser (internal/ui)
//   - the local deep-link listener, when listen_addr is set
//   - the Prometheus /metrics server, when metrics_addr is set
//
// Quitting the browser cancels the group. The listener and metrics server
// are auxiliary: failing to bind is logged and the browser keeps running.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()          Read config.toml
//	       ├─────> setupFileLogging()     Rotated JSON log file
//	       ├─────> NewDependencies()      Client, cache, downloader, setter
//	       ├─────> state.NewPager()       Paged state + deep-link slot
//	       ├─────> deeplink.Listener      POST /open -> Pager.FetchByID
//	       └─────> ui.Run()               Blocks until quit
//
// # One-shot commands
//
// Dependencies is also used directly by the CLI for show, list, download,
// apply and share, which run without the browser.
package app
