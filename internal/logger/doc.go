// Package logger wraps zap with a global sugared logger, level parsing and
// context carriage. Code that has a context pulls its logger with
// FromContext so fields attached upstream travel with it.
package logger
