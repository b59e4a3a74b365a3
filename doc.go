// SPDX-License-Identifier: EPL-2.0

// Package soundshader synthesizes audio with GPU compute shaders.
//
// A sound shader is a GLSL function
//
//	vec2 mainSound(uint idx, float time)
//
// returning the left and right amplitude at an absolute time in seconds. The
// shader runs once per frame, in one-second batches, on the GPU. Audio files
// listed in StreamDescriptor.Assets are decoded, normalized and exposed to
// the shader as soundTextureK, soundTexelFetchK and soundDFTFetchK.
//
// # Live Playback
//
//	desc := soundshader.StreamDescriptor{
//	    Source: shaderSource,
//	    Assets: []string{"drums.wav"},
//	}
//	cfg, err := soundshader.Play(ctx, desc, 10*time.Second)
//
// Play renders ahead of the audio device on a producer goroutine. The device
// callback only copies from the playback buffer and plays silence when the
// producer falls behind.
//
// # Batch Rendering
//
//	samples, err := soundshader.RenderBuffer(desc, 48000, 10*time.Second)
//	err = wav.WriteFile("out.wav", 48000, 2, 16, samples)
//
// RenderBuffer uses the same batch size as live playback, so both produce the
// same samples for the same shader and assets. Export writes a render to
// disk, optionally resampled or downmixed:
//
//	err = soundshader.Export("out.wav", samples, 48000, soundshader.ExportOptions{
//	    SampleRate: 44100,
//	    Mono:       true,
//	})
//
// # Packages
//
//   - audio: Source, decoder Registry, sample Encoding and export conversion
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: decoders
//   - asset: decoded sample FIFO with spectral analysis
//   - shader: program assembly and resource layout
//   - director: GPU execution and the frame cursor
//   - playback: producer/consumer buffer and record sink
//   - device: audio output
package soundshader
