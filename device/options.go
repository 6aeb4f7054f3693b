package device

import (
	"time"

	"github.com/rs/zerolog"
)

// readTimeout is the deadline applied to every transport read.
const readTimeout = 1000 * time.Millisecond

// config holds the session configuration.
type config struct {
	logger     zerolog.Logger
	onProgress ProgressCallback
	onInfo     DeviceInfoCallback
	onVendor   VendorCallback
}

func defaultConfig() config {
	return config{
		logger: zerolog.Nop(),
	}
}

// Option is a functional option for configuring a session.
type Option func(*config)

// WithLogger sets the logger used by the session. By default nothing is
// logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithProgressCallback sets a callback receiving download progress.
//
// Example:
//
//	dev, err := device.Open(ctx, port,
//	    device.WithProgressCallback(func(p device.Progress) {
//	        fmt.Printf("%d/%d bytes\n", p.Current, p.Maximum)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *config) {
		c.onProgress = callback
	}
}

// WithDeviceInfoCallback sets a callback receiving the device identity.
func WithDeviceInfoCallback(callback DeviceInfoCallback) Option {
	return func(c *config) {
		c.onInfo = callback
	}
}

// WithVendorCallback sets a callback receiving the raw version packet.
func WithVendorCallback(callback VendorCallback) Option {
	return func(c *config) {
		c.onVendor = callback
	}
}
