// SPDX-License-Identifier: EPL-2.0

package shader

import (
	"strconv"
	"strings"
)

// WorkgroupSize is the local size of the generated compute entry point.
const WorkgroupSize = 64

// EntryPoint is the name of the generated compute entry point.
const EntryPoint = "main"

const prefix = `#version 450
layout(local_size_x = 64) in;

layout(set = 0, binding = 0) buffer OutputStorage {
	vec2 oSound[];
};

layout(set = 0, binding = 1) uniform DeviceInfo {
	uint iSampleRate;
	uint iBaseFrame;
};

// Splits frame % iSampleRate scaled to rate into its floor and the
// remainder, in units of 1/iSampleRate.
ivec2 assetSplit(uint frame, uint rate) {
	uint s = iSampleRate;
	uint x = frame % s;
	uint q = uint(float(x) * float(rate) / float(s));
	int r = int(x * rate - q * s);
	while (r < 0) {
		q -= 1u;
		r += int(s);
	}
	while (r >= int(s)) {
		q += 1u;
		r -= int(s);
	}
	return ivec2(int(q), r);
}

uint assetFrame(uint frame, uint rate) {
	return (frame / iSampleRate) * rate + uint(assetSplit(frame, rate).x);
}
`

// assetBlock is emitted once per asset; $K is the asset index, $S and $I its
// storage and uniform bindings.
const assetBlock = `
layout(set = 1, binding = $S) buffer AudioTexture$K {
	vec4 iAudioTexture$K[];
};

layout(set = 1, binding = $I) uniform AudioTextureInfo$K {
	uint iChannelSampleRate$K;
	uint iChannels$K;
};

vec2 soundTexture$K(float time) {
	uint rate = iChannelSampleRate$K;
	float t = (time - float(iBaseFrame / iSampleRate)) - float(iBaseFrame % iSampleRate) / float(iSampleRate);
	float pos = float(assetSplit(iBaseFrame, rate).y) / float(iSampleRate) + float(rate) * t;
	uint hi = uint(iAudioTexture$K.length()) - 1u;
	uint idx = min(uint(pos), hi);
	float p = fract(pos);
	return iAudioTexture$K[idx].xy * (1.0 - p) + iAudioTexture$K[min(idx + 1u, hi)].xy * p;
}

vec2 soundTexelFetch$K(uint idx) {
	uint li = idx - assetFrame(iBaseFrame, iChannelSampleRate$K);
	if (li >= uint(iAudioTexture$K.length())) {
		return vec2(0.0);
	}
	return iAudioTexture$K[li].xy;
}

vec2 soundDFTFetch$K(uint idx) {
	uint li = idx - assetFrame(iBaseFrame, iChannelSampleRate$K);
	if (li >= uint(iAudioTexture$K.length())) {
		return vec2(0.0);
	}
	return iAudioTexture$K[li].zw;
}
`

const suffix = `
void main() {
	uint idx = gl_GlobalInvocationID.x;
	if (idx >= uint(oSound.length())) {
		return;
	}
	uint frame = iBaseFrame + idx;
	float time = float(frame / iSampleRate) + float(frame % iSampleRate) / float(iSampleRate);
	oSound[idx] = mainSound(idx, time);
}
`

func writeAsset(b *strings.Builder, i int) {
	r := strings.NewReplacer(
		"$K", strconv.Itoa(i),
		"$S", strconv.FormatUint(uint64(AssetStorageSlot(i)), 10),
		"$I", strconv.FormatUint(uint64(AssetInfoSlot(i)), 10),
	)
	r.WriteString(b, assetBlock)
}
