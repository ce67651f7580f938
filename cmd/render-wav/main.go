// Command render-wav renders a single synthesized note to a stereo WAV
// file.
//
// Usage:
//
//	render-wav -note 60 -strike 0.9 output.wav
//	render-wav -model string -note 57 -damping 0.2 output.wav
//	render-wav -model modal -bow 0.8 -duration 3 output.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	modalsynth "github.com/tphakala/go-modal-synth"
	"github.com/tphakala/go-modal-synth/internal/simdops"
)

const (
	bitDepth16 = 16
	maxInt16   = 32767.0

	wavAudioFormatPCM = 1
	stereoChannels    = 2

	minRequiredArgs = 1
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	note := flag.Int("note", 60, "MIDI note number (0-127)")
	velocity := flag.Int("velocity", 100, "MIDI velocity (1-127)")
	duration := flag.Float64("duration", 1.0, "Gate time in seconds")
	tail := flag.Float64("tail", 1.5, "Release tail in seconds")
	model := flag.String("model", "modal", "Resonator model: modal, string, multistring")
	bow := flag.Float64("bow", 0, "Bow excitation level (0-1)")
	blow := flag.Float64("blow", 0, "Blow excitation level (0-1)")
	strike := flag.Float64("strike", 0.9, "Strike excitation level (0-1)")
	structure := flag.Float64("structure", 0.25, "Modal geometry (0-1)")
	brightness := flag.Float64("brightness", 0.5, "Brightness (0-1)")
	damping := flag.Float64("damping", 0.3, "Damping (0-1)")
	space := flag.Float64("space", 0.7, "Stereo width (0-1)")
	gain := flag.Float64("gain", 1.0, "Linear output gain applied before encoding")
	simd := flag.Bool("simd", false, "Use the SIMD resonator batch path")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}
	outputPath := args[0]

	voice, err := modalsynth.New(&modalsynth.Config{EnableSIMD: *simd})
	if err != nil {
		return err
	}

	switch *model {
	case "modal":
		voice.SetModel(modalsynth.ModelModal)
	case "string":
		voice.SetModel(modalsynth.ModelString)
	case "multistring":
		voice.SetModel(modalsynth.ModelMultiString)
	default:
		return fmt.Errorf("unknown model %q (want modal, string or multistring)", *model)
	}

	voice.SetBow(float32(*bow))
	voice.SetBlow(float32(*blow))
	voice.SetStrike(float32(*strike))
	voice.SetStructure(float32(*structure))
	voice.SetBrightness(float32(*brightness))
	voice.SetDamping(float32(*damping))
	voice.SetSpace(float32(*space))
	voice.ForceResonatorUpdate()

	gateFrames := int(*duration * modalsynth.SampleRate)
	tailFrames := int(*tail * modalsynth.SampleRate)
	totalFrames := gateFrames + tailFrames
	if totalFrames <= 0 {
		return fmt.Errorf("duration plus tail must be positive")
	}

	left := make([]float32, totalFrames)
	right := make([]float32, totalFrames)

	voice.NoteOn(*note, *velocity)
	if err := voice.Process(left[:gateFrames], right[:gateFrames]); err != nil {
		return err
	}
	voice.NoteOff()
	if err := voice.Process(left[gateFrames:], right[gateFrames:]); err != nil {
		return err
	}

	ops := simdops.Vector()
	if *gain != 1 {
		ops.Scale(left, left, float32(*gain))
		ops.Scale(right, right, float32(*gain))
	}

	if *verbose {
		dcLeft := ops.Sum(left) / float32(totalFrames)
		dcRight := ops.Sum(right) / float32(totalFrames)
		log.Printf("Rendered %d frames (%s model, note %d, velocity %d), DC offset L %.2e R %.2e",
			totalFrames, *model, *note, *velocity, dcLeft, dcRight)
	}

	return writeWAV(outputPath, left, right)
}

// writeWAV encodes the stereo buffers as 16-bit PCM.
func writeWAV(path string, left, right []float32) error {
	outputFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = outputFile.Close() }()

	encoder := wav.NewEncoder(outputFile,
		modalsynth.SampleRate, bitDepth16, stereoChannels, wavAudioFormatPCM)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: stereoChannels,
			SampleRate:  modalsynth.SampleRate,
		},
		SourceBitDepth: bitDepth16,
		Data:           make([]int, 2*len(left)),
	}
	for i := range left {
		buf.Data[2*i] = clampToInt16(left[i])
		buf.Data[2*i+1] = clampToInt16(right[i])
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return nil
}

func clampToInt16(v float32) int {
	s := float64(v) * maxInt16
	if s > maxInt16 {
		s = maxInt16
	}
	if s < -maxInt16 - 1 {
		s = -maxInt16 - 1
	}
	return int(s)
}
