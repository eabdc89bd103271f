// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives decoded
// input from the handlers, applies the recipe schema (trimming, defaults,
// timestamps, validation), and calls repository methods to persist the result.
package service
