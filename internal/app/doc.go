// Package app is the composition root for Stockroom.
//
// Run loads the config file, opens the JSON log file, restores any
// remembered session and builds the catalog client and listing store
// before handing control to the terminal UI:
//
//	config.Load()        API URL, page size, timeouts, paths
//	NewLogger()          zap JSON logger on the log file
//	prefs.NewFile()      theme and persisted sort
//	session.Restore()    remembered sign-in, if still valid
//	catalog.NewClient()  rate-limited HTTP client
//	state.NewStore()     query state seeded with the saved sort
//	ui.Run()             blocks until quit or cancel
//
// Startup errors are returned; errors while running are logged and shown
// in the UI.
package app
