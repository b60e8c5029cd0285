// Package format names the wire formats a tree can be encoded to.
//
// Formats parse from their short or long names ("j", "json", "y", "yaml")
// and implement encoding.TextMarshaler so they can be used directly in
// configuration structs and command line options.
package format
