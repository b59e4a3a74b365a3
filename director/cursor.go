// SPDX-License-Identifier: EPL-2.0

package director

// FrameCursor is the running offset into the synthesis timeline. It only
// moves forward; every Advance hands out the frame range following the
// previous one. The cursor wraps after 2^32 frames, matching the width of
// base_frame in the device-info uniform.
type FrameCursor struct {
	pos uint32
}

// Advance reserves frames frames and returns the first of them.
func (c *FrameCursor) Advance(frames uint32) (base uint32) {
	base = c.pos
	c.pos += frames
	return base
}

// Position is the first frame the next Advance will return.
func (c *FrameCursor) Position() uint32 { return c.pos }
