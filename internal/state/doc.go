// Package state holds the product listing state for Stockroom.
//
// # Overview
//
// Store owns the query parameters (page, page size, search text and sort)
// and the result of the latest load. Every mutator that affects what the
// server should return begins a load and hands back a Request describing
// exactly one outbound call:
//
//	req := store.SetSearch("phone")   // page resets to 1
//	out := state.Fetch(ctx, client, req)
//	store.Apply(out)
//
// Fetch performs the network call and never touches the Store. Callers run it
// off the UI event loop (a tea.Cmd in practice) and feed the Outcome back
// through Apply on the loop itself.
//
// # Mode Selection
//
// A load uses the search endpoint iff the trimmed search text is non-empty.
// The raw text is kept in the query as typed.
//
// # Stale Responses
//
// Each Request carries a sequence number. Apply only accepts the Outcome
// for the most recent Request; anything older is dropped, so a slow
// response can never overwrite a newer one. Loading stays true until the
// latest Request resolves.
//
// # Failure Semantics
//
// On failure the previous items and total are kept and the error message is
// recorded for display. A later success clears it.
//
// # Pagination
//
// TotalPages, Bounds and PageWindow are pure helpers used by the table
// footer. PageWindow offers at most WindowWidth consecutive pages, centred on
// the current page where possible.
//
// # Concurrency
//
// Store is not safe for concurrent use. All mutation happens on the Bubble
// Tea update loop.
package state
