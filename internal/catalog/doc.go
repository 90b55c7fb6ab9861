// Package catalog provides an HTTP client for the demo product catalog API.
//
// # Overview
//
// The catalog API is a dummyjson-compatible REST service. Stockroom uses three
// of its endpoints:
//
//   - GET /products: one page of all products
//   - GET /products/search: one page of products matching a query
//   - POST /auth/login: exchange credentials for an access token
//
// Listing requests always ask for the same field selection (ProductFields)
// so table rows stay small.
//
// # Client Usage
//
//	client, err := catalog.NewClient(catalog.Options{
//		BaseURL:           "https://dummyjson.com",
//		RequestsPerSecond: 5,
//		Logger:            logger,
//	})
//	if err != nil {
//		return err
//	}
//
//	page, err := client.ListProducts(ctx, catalog.ListParams{
//		Limit: 20,
//		Skip:  40,
//		Sort:  &catalog.Sort{Field: "price", Order: catalog.OrderDesc},
//	})
//
// # Errors
//
// Non-success responses are returned as *APIError. Its Message is meant for
// the user: list and search failures use a fixed generic message, login
// failures carry the server's own message when it sends one. Transport
// failures are wrapped and returned unchanged.
//
// # Pacing
//
// When Options.RequestsPerSecond is positive every request first waits on a
// token bucket, so rapid paging cannot hammer the demo API. Waiting honours
// the request context.
//
// # Request IDs
//
// Every request carries a fresh X-Request-ID header. The same ID is attached
// to the client's log entries.
package catalog
