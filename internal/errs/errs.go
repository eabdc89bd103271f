// Package errs defines the error types returned to API clients.
//
// Handlers return *HTTPError; the global error handler renders it as JSON.
// Its shape mirrors the payloads clients of this API already depend on:
//
//	{ "message": "...", "error": "...", "errors": ["..."] }
package errs
