package sound

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/hajimehoshi/go-mp3"
)

// ErrUnknownFormat is returned for payloads that are neither an MP3 stream
// nor an MP4 container. The engines treat it like any other decode failure:
// skip the clip and continue.
var ErrUnknownFormat = errors.New("unrecognized audio container")

type format int

const (
	formatUnknown format = iota
	formatMP3
	formatMP4
)

// sniff inspects the payload header. MP4 containers (m4a) carry an "ftyp"
// box at offset 4; MP3 streams start with an ID3 tag or a frame sync.
func sniff(data []byte) format {
	if len(data) >= 12 && string(data[4:8]) == "ftyp" {
		return formatMP4
	}
	if len(data) >= 3 && string(data[:3]) == "ID3" {
		return formatMP3
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0 {
		return formatMP3
	}
	return formatUnknown
}

// decode turns a clip payload into mono int16 samples plus their rate.
func decode(data []byte) (samples []int16, sampleRate int, err error) {
	switch sniff(data) {
	case formatMP3:
		return decodeMP3(data)
	case formatMP4:
		return decodeFFmpeg(data)
	default:
		return nil, 0, ErrUnknownFormat
	}
}

// decodeMP3 decodes with go-mp3, which emits 16-bit little-endian stereo at
// the source rate. The two channels are averaged down to mono.
func decodeMP3(data []byte) ([]int16, int, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 decode: %w", err)
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 decode: %w", err)
	}

	samples := make([]int16, len(pcm)/4)
	for i := range samples {
		l := int16(binary.LittleEndian.Uint16(pcm[i*4 : i*4+2]))
		r := int16(binary.LittleEndian.Uint16(pcm[i*4+2 : i*4+4]))
		samples[i] = int16((int32(l) + int32(r)) / 2)
	}
	return samples, dec.SampleRate(), nil
}

// decodeFFmpeg pipes an MP4/AAC payload through ffmpeg to mono s16le at
// defaultSampleRate. There is no pure-Go AAC decoder, so the m4a clips the
// asset store serves go through the system codec.
func decodeFFmpeg(data []byte) ([]int16, int, error) {
	cmd := exec.Command("ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-ac", "1",
		"-ar", fmt.Sprint(defaultSampleRate),
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(data)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return nil, 0, fmt.Errorf("ffmpeg decode: %w: %s", err, errOut.String())
	}

	pcm := out.Bytes()
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
	}
	return samples, defaultSampleRate, nil
}
