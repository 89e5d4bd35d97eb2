// Package ui provides the terminal interface for browsing wallpapers.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns presentation state only; the
// wallpaper sequence, its load status and the deep-link slot live in the
// pager (internal/state), which the model observes through a change
// subscription and drives through commands.
//
// # Package Structure
//
//   - app.go: Model, Init/Update/View, messages, commands and Run
//   - grid.go: wallpaper grid, selection, scrolling and prefetch
//   - detail.go: wallpaper overlay with save, apply and share actions
//   - header.go: status bar and command bar
//   - logs.go: application log viewer backed by logtail
//   - help.go: key binding overlay
//   - keys.go, layout.go, theme.go, strings.go, style_helpers.go: shared pieces
//
// # Event Flow
//
//  1. Init issues the first page load, and resolves an initial deep link if
//     one was given.
//  2. Every pager change wakes waitForChange, which delivers a snapshotMsg.
//  3. A snapshot carrying a deep link opens the detail overlay and clears the
//     slot; a deep-link error is shown in the footer and cleared the same way.
//  4. Moving the selection near the last loaded row requests the next page.
//     Failed loads are not retried until the user presses r.
//
// # Key Bindings
//
//   - h/j/k/l or arrows: Move the selection
//   - g/G, PgUp/PgDn: Jump within the grid
//   - Enter: Open the selected wallpaper
//   - d: Save to the gallery directory
//   - a: Set as desktop wallpaper
//   - s: Show the share link
//   - r: Retry a failed load
//   - L: Toggle the log view (f toggles follow)
//   - T: Cycle theme
//   - ?: Help
//   - q or Ctrl+C: Exit
package ui
