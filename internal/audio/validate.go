package audio

import (
	"github.com/yoockh/yoodiarize/internal/models"
	"github.com/yoockh/yoodiarize/internal/utils"
)

// Validator decodes a downloaded buffer and enforces the minimum-duration
// policy before the expensive inference stage runs. It deliberately carries
// no maximum: long clips just take longer, and any cap belongs to the
// orchestrator's configuration.
type Validator struct {
	dec Decoder
	min float64 // seconds
}

func NewValidator(dec Decoder, minSeconds float64) *Validator {
	return &Validator{dec: dec, min: minSeconds}
}

// Validate returns the decoded audio, or INVALID_AUDIO when the buffer does
// not decode, or AUDIO_TOO_SHORT when the decoded duration is below the
// minimum. A clip of exactly the minimum duration passes.
func (v *Validator) Validate(buf *models.AudioBuffer) (*DecodedAudio, error) {
	const op = "Validator.Validate"

	decoded, err := v.dec.Decode(buf)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidAudio, op, "invalid or unreadable audio file", err)
	}

	if decoded.Duration() < v.min {
		return nil, utils.E(utils.CodeAudioTooShort, op, "audio file is too short for analysis", nil)
	}
	return decoded, nil
}
