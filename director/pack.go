// SPDX-License-Identifier: EPL-2.0

package director

import (
	"encoding/binary"
	"math"

	"github.com/ik5/soundshader/asset"
)

// texelSize is the std430 stride of one vec4 texel.
const texelSize = 16

// uniformPair encodes two little-endian u32 values, the layout of both the
// device-info and the per-asset uniforms.
func uniformPair(a, b uint32) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint32(out[0:], a)
	binary.LittleEndian.PutUint32(out[4:], b)
	return out
}

// deviceInfo is the (sample_rate, base_frame) uniform.
func deviceInfo(sampleRate, baseFrame uint32) []byte {
	return uniformPair(sampleRate, baseFrame)
}

// assetInfo is the (asset_sample_rate, channel_count) uniform.
func assetInfo(spec asset.Spec) []byte {
	return uniformPair(uint32(spec.SampleRate), uint32(spec.Channels))
}

// texelBytes lays texels out as consecutive vec4 (L, R, Re, Im).
func texelBytes(texels []asset.Texel) []byte {
	out := make([]byte, len(texels)*texelSize)
	for i, t := range texels {
		b := out[i*texelSize:]
		binary.LittleEndian.PutUint32(b[0:], math.Float32bits(t.L))
		binary.LittleEndian.PutUint32(b[4:], math.Float32bits(t.R))
		binary.LittleEndian.PutUint32(b[8:], math.Float32bits(t.Re))
		binary.LittleEndian.PutUint32(b[12:], math.Float32bits(t.Im))
	}
	return out
}

// floats decodes the mapped output buffer.
func floats(src []byte, dst []float32) {
	n := min(len(src)/4, len(dst))
	for i := range n {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
}

// workgroups is the dispatch size covering frames invocations.
func workgroups(frames, size uint32) uint32 {
	return (frames + size - 1) / size
}
