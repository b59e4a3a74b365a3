// SPDX-License-Identifier: EPL-2.0

// Package director runs sound programs on the GPU through
// github.com/cogentcore/webgpu.
//
// A Context holds the adapter and device; a Director holds the compiled
// pipeline for one shader and asset list together with its FrameCursor.
// Render uploads the device-info uniform (sample_rate, base_frame), pulls
// the frames each asset contributes to the batch, dispatches one invocation
// per frame and reads the interleaved stereo result back.
//
// Render blocks on the GPU and must not be called from a real-time audio
// callback. Asset frames per batch follow asset.FramesFor, so resampled
// assets stay aligned to the device timeline indefinitely.
package director
