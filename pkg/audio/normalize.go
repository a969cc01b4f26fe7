package audio

import (
	"encoding/binary"
	"math"
)

// SampleFormat identifies the encoding of raw PCM bytes handed to Normalize.
type SampleFormat int

const (
	// FormatUint8 is unsigned 8-bit PCM centered on 128.
	FormatUint8 SampleFormat = iota
	// FormatInt16 is signed 16-bit little-endian PCM.
	FormatInt16
	// FormatInt32 is signed 32-bit little-endian PCM.
	FormatInt32
	// FormatFloat32 is 32-bit little-endian IEEE float, already in [-1, 1].
	FormatFloat32
)

// String returns the format name.
func (f SampleFormat) String() string {
	switch f {
	case FormatUint8:
		return "uint8"
	case FormatInt16:
		return "int16"
	case FormatInt32:
		return "int32"
	case FormatFloat32:
		return "float32"
	default:
		return "unknown"
	}
}

// bytesPerSample returns the width of one sample in bytes.
func (f SampleFormat) bytesPerSample() int {
	switch f {
	case FormatUint8:
		return 1
	case FormatInt16:
		return 2
	default:
		return 4
	}
}

// Normalize converts raw PCM bytes into a canonical float32 Buffer, scaling
// each format so its full integer range maps onto [-1.0, 1.0]:
//
//	uint8   (v - 128) / 128
//	int16   v / 32768
//	int32   v / 2147483648
//	float32 pass-through
//
// Zero-length input yields an empty Buffer; trailing bytes that do not fill
// a whole sample are dropped.
func Normalize(raw []byte, format SampleFormat, sampleRate, channels int) *Buffer {
	if channels <= 0 {
		channels = 1
	}

	width := format.bytesPerSample()
	n := len(raw) / width

	buf := &Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    make([]float32, n),
	}

	switch format {
	case FormatUint8:
		for i := 0; i < n; i++ {
			buf.Samples[i] = (float32(raw[i]) - 128) / 128
		}
	case FormatInt16:
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
			buf.Samples[i] = float32(v) / 32768
		}
	case FormatInt32:
		for i := 0; i < n; i++ {
			v := int32(binary.LittleEndian.Uint32(raw[i*4:]))
			buf.Samples[i] = float32(float64(v) / 2147483648)
		}
	case FormatFloat32:
		for i := 0; i < n; i++ {
			buf.Samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
	}

	return buf
}

// NormalizeInts converts integer samples of the given source bit depth into
// a canonical Buffer. This is the path WAV decoding takes: go-audio hands
// back plain ints regardless of the file's bit depth.
func NormalizeInts(data []int, bitDepth, sampleRate, channels int) *Buffer {
	if channels <= 0 {
		channels = 1
	}

	buf := &Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    make([]float32, len(data)),
	}

	switch bitDepth {
	case 8:
		// 8-bit WAV is unsigned, centered on 128.
		for i, v := range data {
			buf.Samples[i] = (float32(v) - 128) / 128
		}
	case 16:
		for i, v := range data {
			buf.Samples[i] = float32(v) / 32768
		}
	case 24:
		for i, v := range data {
			buf.Samples[i] = float32(float64(v) / 8388608)
		}
	case 32:
		for i, v := range data {
			buf.Samples[i] = float32(float64(v) / 2147483648)
		}
	default:
		// Unknown depth: scale by the largest value that fits.
		scale := float64(int64(1) << (bitDepth - 1))
		for i, v := range data {
			buf.Samples[i] = float32(float64(v) / scale)
		}
	}

	return buf
}
