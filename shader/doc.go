// SPDX-License-Identifier: EPL-2.0

// Package shader assembles GLSL compute programs around a user synthesis
// function.
//
// The user source must define
//
//	vec2 mainSound(uint idx, float time)
//
// returning the left and right amplitude of one frame. idx is the position
// within the current batch and time the absolute playback time in seconds.
// The generated program runs one invocation per frame in workgroups of
// WorkgroupSize and writes the result to the output buffer.
//
// For every bound asset k the program exposes
//
//	vec2 soundTextureK(float time)  // linear interpolation at the asset's own rate
//	vec2 soundTexelFetchK(uint idx) // raw frame by absolute asset index
//	vec2 soundDFTFetchK(uint idx)   // spectral bin (re, im) by absolute asset index
//
// Resources follow a fixed layout. Group 0 holds the output storage buffer at
// binding 0 and the device-info uniform (sample_rate, base_frame) at binding
// 1. Group 1 holds, for asset i, a vec4 texel buffer at binding 2i and a
// (sample_rate, channels) uniform at binding 2i+1.
package shader
