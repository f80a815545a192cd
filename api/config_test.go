package api

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/boothhq/fleet/internal/validate"
)

func TestDefaultKioskConfig(t *testing.T) {
	cfg := DefaultKioskConfig()

	assert.Equal(t, cfg.Processing.Mode, "standard")
	assert.Equal(t, cfg.Processing.Quality, 85)
	assert.Equal(t, cfg.Camera.Resolution, "1080p")
	assert.Equal(t, cfg.Camera.FPS, 30)
	assert.Equal(t, cfg.Camera.CountdownSeconds, 3)
	assert.Equal(t, cfg.Display.Width, 1920)
	assert.Equal(t, cfg.Display.Height, 1080)
	assert.Equal(t, cfg.Payment.Enabled, false)
	assert.Equal(t, cfg.Payment.Currency, "USD")
	assert.Equal(t, cfg.Payment.Terminal.BaudRate, 115200)
	assert.Equal(t, cfg.Printer.PaperSize, "4x6")
	assert.Equal(t, cfg.Debug.LogLevel, "info")

	// the default document must always pass its own validation
	assert.NilError(t, validate.Validate(cfg))
}

func TestKioskConfigValidation(t *testing.T) {
	type testCase struct {
		name     string
		modify   func(cfg *KioskConfig)
		expected string
	}

	run := func(t *testing.T, tc testCase) {
		cfg := DefaultKioskConfig()
		tc.modify(&cfg)

		err := validate.Validate(cfg)
		assert.ErrorContains(t, err, "validation failed")

		var verr validate.Error
		assert.Assert(t, errors.As(err, &verr))
		_, ok := verr[tc.expected]
		assert.Assert(t, ok, "expected a failure for %v, got %v", tc.expected, verr)
	}

	testCases := []testCase{
		{
			name:     "fps out of range",
			modify:   func(cfg *KioskConfig) { cfg.Camera.FPS = 500 },
			expected: "camera.fps",
		},
		{
			name:     "unknown processing mode",
			modify:   func(cfg *KioskConfig) { cfg.Processing.Mode = "turbo" },
			expected: "processing.mode",
		},
		{
			name:     "quality above maximum",
			modify:   func(cfg *KioskConfig) { cfg.Processing.Quality = 101 },
			expected: "processing.quality",
		},
		{
			name:     "unsupported currency",
			modify:   func(cfg *KioskConfig) { cfg.Payment.Currency = "BTC" },
			expected: "payment.currency",
		},
		{
			name:     "baud rate not in supported set",
			modify:   func(cfg *KioskConfig) { cfg.Payment.Terminal.BaudRate = 1200 },
			expected: "payment.terminal.baudRate",
		},
		{
			name:     "orientation enum",
			modify:   func(cfg *KioskConfig) { cfg.Display.Orientation = "diagonal" },
			expected: "display.orientation",
		},
		{
			name:     "missing required section value",
			modify:   func(cfg *KioskConfig) { cfg.Printer.PaperSize = "" },
			expected: "printer.paperSize",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func TestHeartbeatRequestStatusVocabulary(t *testing.T) {
	for _, status := range MachineSelfReportableStatuses {
		req := HeartbeatRequest{Status: status}
		req.ID = 1
		assert.NilError(t, validate.Validate(req), status)
	}

	// server-owned statuses may not be self-reported
	for _, status := range []string{"maintenance", "offline", "sleeping"} {
		req := HeartbeatRequest{Status: status}
		req.ID = 1
		err := validate.Validate(req)
		assert.ErrorContains(t, err, "status", status)
	}
}
