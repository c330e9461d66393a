package capture

import "fmt"

// HandleConstructor builds an unopened handle from options.
type HandleConstructor func(*Options) Handle

var handleConstructors = map[Type]HandleConstructor{}

// RegisterHandle registers a backend constructor. Called from init on each
// backend implementation; the afpacket backend only registers on Linux.
func RegisterHandle(t Type, fn HandleConstructor) {
	handleConstructors[t] = fn
}

// NewHandle builds an unopened handle for the configured backend.
func NewHandle(opts *Options) (Handle, error) {
	fn, ok := handleConstructors[opts.Backend]
	if !ok {
		return nil, fmt.Errorf("capture backend %s is not supported on this platform", opts.Backend)
	}
	return fn(opts), nil
}
