// Package repository handles all interactions with the document store.
//
// It owns the driver calls for each collection and converts driver errors
// into dberr errors, so the service layer never sees driver types.
package repository
