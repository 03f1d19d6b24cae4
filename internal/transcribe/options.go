package transcribe

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vttscribe/internal/language"
)

// Default transcription options.
const (
	DefaultModel                = "medium.en"
	DefaultDevice               = DeviceCPU
	DefaultComputePrecision     = PrecisionInt8
	DefaultLanguage             = "en"
	DefaultBeamWidth            = 5
	DefaultVADFilter            = true
	DefaultMinSilenceDurationMS = 400
)

// Devices understood by the providers.
const (
	DeviceAuto = "auto"
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// Compute precisions understood by the providers.
const (
	PrecisionAuto        = "auto"
	PrecisionFloat32     = "float32"
	PrecisionFloat16     = "float16"
	PrecisionBFloat16    = "bfloat16"
	PrecisionInt8        = "int8"
	PrecisionInt8Float16 = "int8_float16"
	PrecisionInt8Float32 = "int8_float32"
	PrecisionInt16       = "int16"
)

var validDevices = map[string]struct{}{
	DeviceAuto: {},
	DeviceCPU:  {},
	DeviceCUDA: {},
}

var validPrecisions = map[string]struct{}{
	PrecisionAuto:        {},
	PrecisionFloat32:     {},
	PrecisionFloat16:     {},
	PrecisionBFloat16:    {},
	PrecisionInt8:        {},
	PrecisionInt8Float16: {},
	PrecisionInt8Float32: {},
	PrecisionInt16:       {},
}

// Options captures every knob passed to a provider for one run.
type Options struct {
	// ModelVariant names the model weights (e.g. "medium.en", "large-v3").
	ModelVariant string
	// Device selects cpu, cuda, or auto.
	Device string
	// ComputePrecision is the inference compute type (e.g. "float16", "int8").
	ComputePrecision string
	// Language is an ISO 639-1 hint; empty means detect.
	Language string
	// BeamWidth is the decoding beam size.
	BeamWidth int
	// VADFilter enables voice-activity filtering before decoding.
	VADFilter bool
	// MinSilenceDurationMS is the VAD minimum silence duration.
	MinSilenceDurationMS int
}

// DefaultOptions returns the options used when nothing is overridden.
func DefaultOptions() Options {
	return Options{
		ModelVariant:         DefaultModel,
		Device:               DefaultDevice,
		ComputePrecision:     DefaultComputePrecision,
		Language:             DefaultLanguage,
		BeamWidth:            DefaultBeamWidth,
		VADFilter:            DefaultVADFilter,
		MinSilenceDurationMS: DefaultMinSilenceDurationMS,
	}
}

// Normalize trims and lower-cases enum fields, fills empty fields with
// defaults and converts the language hint to its ISO 639-1 form.
func (o Options) Normalize() (Options, error) {
	o.ModelVariant = strings.TrimSpace(o.ModelVariant)
	if o.ModelVariant == "" {
		o.ModelVariant = DefaultModel
	}
	o.Device = strings.ToLower(strings.TrimSpace(o.Device))
	if o.Device == "" {
		o.Device = DefaultDevice
	}
	o.ComputePrecision = strings.ToLower(strings.TrimSpace(o.ComputePrecision))
	switch o.ComputePrecision {
	case "":
		o.ComputePrecision = DefaultComputePrecision
	case "default":
		// faster-whisper's name for letting the backend choose
		o.ComputePrecision = PrecisionAuto
	}
	lang, err := language.Hint(o.Language)
	if err != nil {
		return o, err
	}
	o.Language = lang
	return o, nil
}

// Validate reports every invalid field at once.
func (o Options) Validate() error {
	var errs []error
	if strings.TrimSpace(o.ModelVariant) == "" {
		errs = append(errs, errors.New("model variant is required"))
	}
	if _, ok := validDevices[o.Device]; !ok {
		errs = append(errs, fmt.Errorf("device %q: must be one of auto, cpu, cuda", o.Device))
	}
	if _, ok := validPrecisions[o.ComputePrecision]; !ok {
		errs = append(errs, fmt.Errorf("compute precision %q is not supported", o.ComputePrecision))
	}
	if o.BeamWidth < 1 {
		errs = append(errs, fmt.Errorf("beam width must be at least 1 (got %d)", o.BeamWidth))
	}
	if o.MinSilenceDurationMS < 0 {
		errs = append(errs, fmt.Errorf("min silence duration must be >= 0 (got %d)", o.MinSilenceDurationMS))
	}
	return errors.Join(errs...)
}

// Fingerprint returns a stable digest of the options that influence output.
func (o Options) Fingerprint() string {
	fields := []string{
		"model=" + o.ModelVariant,
		"device=" + o.Device,
		"precision=" + o.ComputePrecision,
		"language=" + o.Language,
		"beam=" + strconv.Itoa(o.BeamWidth),
		"vad=" + strconv.FormatBool(o.VADFilter),
		"min_silence_ms=" + strconv.Itoa(o.MinSilenceDurationMS),
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, "\n")))
	return hex.EncodeToString(sum[:])
}
