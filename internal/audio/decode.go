package audio

import (
	"bytes"
	"errors"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/yoockh/yoodiarize/internal/models"
)

// DecodedAudio is the sample-domain form of a downloaded file: mono PCM16
// plus the rate it was decoded at.
type DecodedAudio struct {
	Samples    []int16
	SampleRate int
}

// Duration returns the clip length in seconds.
func (d *DecodedAudio) Duration() float64 {
	if d.SampleRate <= 0 {
		return 0
	}
	return float64(len(d.Samples)) / float64(d.SampleRate)
}

// Decoder turns a raw audio buffer into samples. The service ships with the
// MP3 implementation; tests substitute deterministic stubs.
type Decoder interface {
	Decode(buf *models.AudioBuffer) (*DecodedAudio, error)
}

// MP3Decoder decodes MPEG-1 Layer III audio, the single container the
// service accepts.
type MP3Decoder struct{}

func NewMP3Decoder() *MP3Decoder { return &MP3Decoder{} }

func (MP3Decoder) Decode(buf *models.AudioBuffer) (*DecodedAudio, error) {
	if buf == nil || len(buf.Data) == 0 {
		return nil, errors.New("empty audio buffer")
	}

	dec, err := mp3.NewDecoder(bytes.NewReader(buf.Data))
	if err != nil {
		return nil, err
	}

	// go-mp3 always emits interleaved stereo int16 little-endian.
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}
	frames := len(pcm) / 4
	if frames == 0 {
		return nil, errors.New("no decodable audio frames")
	}

	// Downmix to mono; the diarization runtime takes a single channel.
	samples := make([]int16, frames)
	for i := 0; i < frames; i++ {
		l := int16(pcm[i*4]) | int16(pcm[i*4+1])<<8
		r := int16(pcm[i*4+2]) | int16(pcm[i*4+3])<<8
		samples[i] = int16((int32(l) + int32(r)) / 2)
	}

	return &DecodedAudio{
		Samples:    samples,
		SampleRate: dec.SampleRate(),
	}, nil
}
