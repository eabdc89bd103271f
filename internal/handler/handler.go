// Package handler is the first layer after the router.
//
// It binds requests, runs the request-level validation from the validation
// package, calls the service layer, and maps service errors to the HTTP
// responses of the API.
package handler
