// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/ik5/soundshader/audio"
)

// WAVBytes builds an in-memory canonical WAV file holding samples
// (interleaved, normalized floats) stored with the given encoding.
// Integer encodings scale by 2^(bits-1) and clamp at full scale.
func WAVBytes(enc audio.Encoding, sampleRate, channels int, samples []float32) []byte {
	format := uint16(audio.FormatPCM)
	if enc.IsFloat() {
		format = audio.FormatIEEEFloat
	}

	bits := enc.BitsPerSample()
	blockAlign := channels * bits / 8
	data := EncodeSamples(enc, samples)

	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, format)
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bits))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)%2 == 1 {
		buf.WriteByte(0)
	}

	return buf.Bytes()
}

// ExtensibleWAVBytes is WAVBytes with a 40 byte WAVE_FORMAT_EXTENSIBLE fmt
// chunk whose SubFormat GUID carries subFormat as its format tag.
func ExtensibleWAVBytes(enc audio.Encoding, subFormat uint16, sampleRate, channels int, samples []float32) []byte {
	bits := enc.BitsPerSample()
	blockAlign := channels * bits / 8
	data := EncodeSamples(enc, samples)

	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(4+8+40+8+len(data)+len(data)%2))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(40))
	binary.Write(buf, binary.LittleEndian, uint16(audio.FormatExtensible))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bits))
	binary.Write(buf, binary.LittleEndian, uint16(22))
	binary.Write(buf, binary.LittleEndian, uint16(bits))
	binary.Write(buf, binary.LittleEndian, uint32(0))
	binary.Write(buf, binary.LittleEndian, subFormat)
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)%2 == 1 {
		buf.WriteByte(0)
	}

	return buf.Bytes()
}

// EncodeSamples is the inverse of audio.Encoding.Decode.
func EncodeSamples(enc audio.Encoding, samples []float32) []byte {
	size := enc.BytesPerSample()
	out := make([]byte, len(samples)*size)

	for i, v := range samples {
		b := out[i*size : (i+1)*size]
		switch enc {
		case audio.PCM8:
			b[0] = byte(quantize(v, 8) + 128)
		case audio.PCM16:
			binary.LittleEndian.PutUint16(b, uint16(int16(quantize(v, 16))))
		case audio.PCM24:
			q := uint32(int32(quantize(v, 24)))
			b[0], b[1], b[2] = byte(q), byte(q>>8), byte(q>>16)
		case audio.PCM32:
			binary.LittleEndian.PutUint32(b, uint32(int32(quantize(v, 32))))
		case audio.Float32:
			binary.LittleEndian.PutUint32(b, math.Float32bits(v))
		case audio.Float64:
			binary.LittleEndian.PutUint64(b, math.Float64bits(float64(v)))
		}
	}

	return out
}

func quantize(v float32, bits int) int64 {
	scale := math.Ldexp(1, bits-1)
	q := math.Round(float64(v) * scale)
	q = math.Max(-scale, math.Min(scale-1, q))
	return int64(q)
}
