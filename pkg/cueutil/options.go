// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize bounds the size of a CUE document accepted for parsing.
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Option configures ParseAndDecode and Unify.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func defaultOptions() options {
	return options{maxFileSize: DefaultMaxFileSize}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.filename == "" {
		o.filename = "<input>"
	}
	return o
}

// WithFilename names the document in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete requires every field of the unified value to be concrete.
// Schemas with optional fields leave it off.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}
