package debug

import (
	"log/slog"
	"os"
	"strconv"
)

type debug struct {
	Resolve  bool
	Envelope bool
	Codec    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Resolve = boolEnv("DATABIND_DEBUG_RESOLVE")
	d.Envelope = boolEnv("DATABIND_DEBUG_ENVELOPE")
	d.Codec = boolEnv("DATABIND_DEBUG_CODEC")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Resolve() bool {
	return d.Resolve
}
func Envelope() bool {
	return d.Envelope
}
func Codec() bool {
	return d.Codec
}

// Logger returns a debug level logger writing to stderr.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Discard is a logger which drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
