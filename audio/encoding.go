// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encoding is the on-disk representation of a single sample.
//
// The set of encodings is closed: every variant has exactly one decode-to-float
// rule. Integer PCM is normalized by dividing by 2^(bits-1), so full-scale
// negative maps to -1.0 and full-scale positive to just below 1.0. Float PCM
// passes through unchanged.
type Encoding uint8

const (
	EncodingUnknown Encoding = iota
	PCM8                     // unsigned 8-bit (WAV) or signed 8-bit (AIFF, via FromInt)
	PCM16
	PCM24
	PCM32
	Float32
	Float64
)

// WAVE format tags understood by EncodingFor.
const (
	FormatPCM        = 1
	FormatIEEEFloat  = 3
	FormatExtensible = 0xFFFE
)

// EncodingFor maps a WAVE format tag and bit depth to an Encoding.
//
// Integer depths that are not a whole number of bytes (12, 20) are stored
// left-justified in the next byte width, so they decode through that
// container's encoding. WAVE_FORMAT_EXTENSIBLE must be resolved with
// ExtensibleFormat before calling EncodingFor.
func EncodingFor(format, bitsPerSample int) (Encoding, error) {
	switch format {
	case FormatPCM:
		if bitsPerSample < 1 || bitsPerSample > 32 {
			break
		}
		switch (bitsPerSample + 7) / 8 {
		case 1:
			return PCM8, nil
		case 2:
			return PCM16, nil
		case 3:
			return PCM24, nil
		case 4:
			return PCM32, nil
		}
	case FormatIEEEFloat:
		switch bitsPerSample {
		case 32:
			return Float32, nil
		case 64:
			return Float64, nil
		}
	}

	return EncodingUnknown, fmt.Errorf("format %d, %d bits: %w", format, bitsPerSample, ErrUnsupportedEncoding)
}

// ksDataFormatSuffix is the tail shared by every KSDATAFORMAT_SUBTYPE GUID;
// the leading two bytes carry the plain format tag.
var ksDataFormatSuffix = [14]byte{
	0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71,
}

// ExtensibleFormat maps the SubFormat GUID of a WAVE_FORMAT_EXTENSIBLE fmt
// chunk, in its on-disk byte order, to the format tag it stands for. Only
// the PCM and IEEE float subtypes are accepted.
func ExtensibleFormat(subFormat [16]byte) (int, error) {
	if [14]byte(subFormat[2:]) == ksDataFormatSuffix {
		switch tag := int(binary.LittleEndian.Uint16(subFormat[:2])); tag {
		case FormatPCM, FormatIEEEFloat:
			return tag, nil
		}
	}

	return 0, fmt.Errorf("extensible subformat %x: %w", subFormat, ErrUnsupportedEncoding)
}

func (e Encoding) BitsPerSample() int {
	switch e {
	case PCM8:
		return 8
	case PCM16:
		return 16
	case PCM24:
		return 24
	case PCM32, Float32:
		return 32
	case Float64:
		return 64
	}
	return 0
}

func (e Encoding) BytesPerSample() int { return e.BitsPerSample() / 8 }

func (e Encoding) IsFloat() bool { return e == Float32 || e == Float64 }

// FromInt normalizes an already sign-extended integer sample.
// Float encodings have no integer form and return 0.
func (e Encoding) FromInt(v int) float32 {
	switch e {
	case PCM8:
		return float32(v) / 128.0
	case PCM16:
		return float32(v) / 32768.0
	case PCM24:
		return float32(v) / 8388608.0
	case PCM32:
		return float32(float64(v) / 2147483648.0)
	}
	return 0
}

// Decode converts little-endian raw sample bytes to normalized floats.
// It returns the number of samples written, bounded by both len(dst) and
// the number of whole samples in src.
func (e Encoding) Decode(src []byte, dst []float32) int {
	size := e.BytesPerSample()
	if size == 0 {
		return 0
	}

	n := min(len(src)/size, len(dst))

	switch e {
	case PCM8:
		for i := range n {
			dst[i] = float32(int(src[i])-128) / 128.0
		}
	case PCM16:
		for i := range n {
			v := int16(binary.LittleEndian.Uint16(src[2*i:]))
			dst[i] = float32(v) / 32768.0
		}
	case PCM24:
		for i := range n {
			b := src[3*i : 3*i+3]
			v := int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8
			dst[i] = float32(v) / 8388608.0
		}
	case PCM32:
		for i := range n {
			v := int32(binary.LittleEndian.Uint32(src[4*i:]))
			dst[i] = float32(float64(v) / 2147483648.0)
		}
	case Float32:
		for i := range n {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
		}
	case Float64:
		for i := range n {
			dst[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(src[8*i:])))
		}
	}

	return n
}

func (e Encoding) String() string {
	switch e {
	case PCM8:
		return "pcm8"
	case PCM16:
		return "pcm16"
	case PCM24:
		return "pcm24"
	case PCM32:
		return "pcm32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return "unknown"
}
