package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureLogger(t *testing.T) {
	logger, capture := NewCaptureLogger()

	logger.Debug("parsed", "targets", 3)
	logger.With("file", "BUILD").Warn("dropping", "label", "@x//:y")

	records := capture.Records()
	require.Len(t, records, 2)
	assert.Equal(t, slog.LevelDebug, records[0].Level)
	assert.Equal(t, "3", records[0].Attrs["targets"])

	warnings := capture.ByLevel(slog.LevelWarn)
	require.Len(t, warnings, 1)
	assert.Equal(t, "BUILD", warnings[0].Attrs["file"])
	assert.Equal(t, "@x//:y", warnings[0].Attrs["label"])
	assert.Equal(t, []string{"parsed", "dropping"}, capture.Messages())
}
