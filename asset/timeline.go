// SPDX-License-Identifier: EPL-2.0

package asset

// FrameAt maps a device frame to the last asset frame at or before the same
// instant. Whole seconds map exactly, so batches never drift apart:
//
//	FrameAt(f) = (f / deviceRate) * assetRate + floor((f % deviceRate) * assetRate / deviceRate)
func FrameAt(frame uint64, deviceRate, assetRate uint32) uint64 {
	dr, ar := uint64(deviceRate), uint64(assetRate)
	if dr == 0 {
		return 0
	}

	x := frame % dr
	return (frame/dr)*ar + x*ar/dr
}

// FramesFor is the number of asset frames covering device frames
// [base, base+n).
func FramesFor(base uint64, n, deviceRate, assetRate uint32) int {
	return int(FrameAt(base+uint64(n), deviceRate, assetRate) - FrameAt(base, deviceRate, assetRate))
}
