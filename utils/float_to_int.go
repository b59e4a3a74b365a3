// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt quantizes a normalized sample to a signed integer of the
// given bit depth (8 to 32). Input is clamped to [-1, 1]; the scale is
// 2^(bits-1)-1 so full scale never overflows.
func Float32ToInt(x float32, bits int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	scale := float64(int64(1)<<(bits-1) - 1)
	return int(float64(x) * scale)
}
