// Package core defines sentinel errors.
package core

import "errors"

var (
	// Packet decoding errors
	ErrPacketTooShort   = errors.New("snooper: packet too short")
	ErrUnsupportedProto = errors.New("snooper: unsupported protocol")

	// Capture errors
	ErrWouldBlock    = errors.New("snooper: no packet available")
	ErrHandleClosed  = errors.New("snooper: capture handle closed")
	ErrDeviceNotFound = errors.New("unable to find device with the specified interface name ")

	// Configuration errors
	ErrInvalidFormat   = errors.New("Invalid format given as a parameter.")
	ErrInvalidFilePath = errors.New("Invalid file path given as a parameter.")
	ErrInvalidInterval = errors.New("Invalid time interval given as a parameter.")
	ErrInvalidFilter   = errors.New("Invalid filter given as a parameter.")
)
