// SPDX-License-Identifier: EPL-2.0

package director

import "errors"

var (
	// ErrNoAdapter is returned when no GPU adapter can be acquired.
	ErrNoAdapter = errors.New("no GPU adapter available")

	// ErrNoDevice is returned when the adapter refuses to create a device.
	ErrNoDevice = errors.New("GPU device request failed")

	// ErrShaderCompile wraps the compiler diagnostic of an invalid program.
	ErrShaderCompile = errors.New("shader compilation failed")

	// ErrMapFailed is returned when the rendered samples cannot be read back.
	ErrMapFailed = errors.New("failed to map GPU output buffer")

	// ErrOddLength rejects buffer lengths that do not hold whole stereo frames.
	ErrOddLength = errors.New("buffer length must be even")

	// ErrZeroRate rejects a zero device sample rate.
	ErrZeroRate = errors.New("sample rate must be positive")
)
