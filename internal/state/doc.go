// Package state holds the paged wallpaper collection shared between the fetch
// goroutines and the UI.
//
// # Overview
//
// A Pager owns four pieces of state: the ordered page sequence fetched so far,
// the load status, the cursor of the next page to request, and a one-shot
// deep-link slot. Nothing outside the package mutates them; observers read
// copies through Snapshot and learn about changes through Subscribe.
//
// # Paged Loading
//
// LoadNextPage drives the state machine:
//
//	idle ──LoadNextPage──→ loading (cursor 0) / loading more (cursor > 0)
//	                          │
//	        ┌─────────────────┼──────────────────┬──────────────┐
//	        ↓                 ↓                  ↓              ↓
//	  idle + items      end reached        idle + Err     idle (ctx cancelled)
//	  cursor+1, Err=nil  (permanent)       cursor kept     nothing recorded
//
// The in-flight check and the transition into a loading status happen under
// the same mutex, so concurrent callers never issue a duplicate fetch. Calls
// made while loading or after the end is reached return false immediately.
//
// A failed load keeps the items and the cursor. Calling LoadNextPage again
// retries the same page and clears Err on success.
//
// # Deep Links
//
// FetchByID resolves one wallpaper independently of paging and stores it in
// Snapshot.DeepLink, overwriting an unconsumed value. A failure is returned,
// logged, and recorded in Snapshot.DeepLinkErr; it never touches the items,
// the cursor, or Err. Every store bumps Snapshot.DeepLinkSeq. The UI calls
// ConsumeDeepLink with the sequence it acted on, so a link stored after that
// snapshot survives until the next one. ClearDeepLink empties the slot
// unconditionally.
//
// # Observing
//
//	ch, cancel := pager.Subscribe()
//	defer cancel()
//	for range ch {
//		render(pager.Snapshot())
//	}
//
// Change notifications coalesce into a buffer of one, so a slow reader sees
// the latest state rather than every intermediate transition.
package state
