// Package logtail reads the tail of the application log and turns its JSON
// lines into compact text for the log view.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// O(maxLines) however large the file grows. Missing files read as empty.
//
// Parse decodes one zerolog line into an Entry; Format renders it as
//
//	14:32:15 ERR [pager] failed to load page error_class=network page=3
//
// Lines that are not JSON pass through unchanged.
package logtail
