// Package deeplink turns external links into wallpaper ids and delivers them
// to a running instance.
//
// Links come in three shapes:
//
//	postersapp://wallpaper/<id>                              app link
//	https://arpg2418.github.io/posters-redirect/?wallpaperId=<id>   share link
//	<id>                                                     bare id
//
// While the browser runs, a Listener on a loopback address accepts
// POST /open with a link form value and hands the parsed id to a callback.
// Forward is the client side used by "posters open" to reach that listener.
// The listener also serves GET /health and a /events websocket that
// broadcasts Event values such as applied wallpapers.
package deeplink
