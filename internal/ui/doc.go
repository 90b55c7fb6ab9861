// Package ui provides the Bubble Tea terminal interface for Stockroom.
//
// # Screens
//
//   - Login: username, password, remember me; validation runs on submit
//   - Products: searchable, sortable, paginated catalog table
//   - Activity: tail of the application's own log file
//
// The add-product form and the help overlay are drawn over the products
// screen.
//
// # State Flow
//
// The listing lives in a *state.Store owned by the caller. Key handlers call
// store mutators, which return a state.Request; the Model turns each request
// into a tea.Cmd that runs state.Fetch off the event loop and comes back as a
// listingMsg. Store.Apply drops outcomes for superseded requests, so the
// table only ever reflects the latest query.
//
// # Search
//
// The header search box debounces edits by SearchDebounce. Each edit bumps a
// token and schedules a tick; only the tick carrying the current token
// reaches the store. Enter commits immediately and cancels the pending tick.
//
// # Sorting
//
// Keys 1-4 cycle the name, vendor, rating and price columns through
// ascending, descending and server order. The store persists the choice so
// the next launch starts with the same sort.
//
// # Keyboard
//
// See keys.go for the full map. Text inputs capture printable keys while
// focused, so list navigation keys only apply when the search box is blurred.
package ui
