// Package audio handles the PCM/WAV plumbing between the speech
// synthesizer, the playback tiers, and the wire.
package audio

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// PCMParams describes a raw linear-PCM stream.
type PCMParams struct {
	BitsPerSample int
	SampleRate    int
	Channels      int
}

// DefaultPCMParams matches the synthesizer's native output: 16-bit mono at
// 24 kHz.
var DefaultPCMParams = PCMParams{BitsPerSample: 16, SampleRate: 24000, Channels: 1}

// ParseMIMEParams extracts bits per sample and sample rate from a MIME type
// like "audio/L16;codec=pcm;rate=24000". Unparseable parameters keep the
// defaults.
func ParseMIMEParams(mimeType string) PCMParams {
	p := DefaultPCMParams
	for _, param := range strings.Split(mimeType, ";") {
		param = strings.TrimSpace(param)
		switch {
		case strings.HasPrefix(strings.ToLower(param), "rate="):
			if rate, err := strconv.Atoi(param[len("rate="):]); err == nil {
				p.SampleRate = rate
			}
		case strings.HasPrefix(param, "audio/L"):
			if bits, err := strconv.Atoi(param[len("audio/L"):]); err == nil {
				p.BitsPerSample = bits
			}
		}
	}
	return p
}

// EncodeWAV wraps raw PCM data in a RIFF/WAVE container.
func EncodeWAV(pcm []byte, p PCMParams) []byte {
	if p.Channels == 0 {
		p.Channels = 1
	}
	bytesPerSample := p.BitsPerSample / 8
	blockAlign := p.Channels * bytesPerSample
	byteRate := p.SampleRate * blockAlign

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(header[22:24], uint16(p.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(p.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(p.BitsPerSample))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))

	return append(header, pcm...)
}

// DecodeWAV extracts the raw PCM frames and their parameters from a
// RIFF/WAVE container. Only uncompressed PCM is supported.
func DecodeWAV(data []byte) ([]byte, PCMParams, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, PCMParams{}, fmt.Errorf("not a RIFF/WAVE stream")
	}

	var p PCMParams
	var pcm []byte
	sawFmt := false

	// Walk the chunk list; fmt and data may be separated by others.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, PCMParams{}, fmt.Errorf("fmt chunk too short (%d bytes)", size)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, PCMParams{}, fmt.Errorf("unsupported audio format %d (want PCM)", format)
			}
			p.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			p.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			p.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			sawFmt = true
		case "data":
			pcm = data[body : body+size]
		}

		// Chunks are word-aligned.
		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !sawFmt {
		return nil, PCMParams{}, fmt.Errorf("missing fmt chunk")
	}
	if pcm == nil {
		return nil, PCMParams{}, fmt.Errorf("missing data chunk")
	}
	return pcm, p, nil
}

// SilentWAV returns the given number of seconds of silence in the default
// PCM format. The synthesizer falls back to it when generation fails in a
// way that should not stall the session.
func SilentWAV(seconds int) []byte {
	p := DefaultPCMParams
	pcm := make([]byte, seconds*p.SampleRate*(p.BitsPerSample/8)*1)
	return EncodeWAV(pcm, p)
}
