// Package debug holds switches read from the environment at start up.
//
//	DATABIND_DEBUG_RESOLVE   log model resolution when no logger is configured
//	DATABIND_DEBUG_ENVELOPE  log each envelope element as it is read and written
//	DATABIND_DEBUG_CODEC     log decoded documents
package debug
