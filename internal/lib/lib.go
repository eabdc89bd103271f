// Package lib holds modules that do not fit strictly into one layer.
//
// It contains background job processing (using Redis/Asynq).
package lib
