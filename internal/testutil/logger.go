package testutil

import (
	"log/slog"
)

// DiscardLogger returns a slog.Logger that drops everything. Handed to
// stores, the poller and the answer service in tests so assertions are not
// buried in log noise. Equivalent to log.NewNop(); this one exists so test
// files that already import testutil do not need a second import.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
