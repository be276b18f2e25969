package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiVoice is used when no voice is configured
const DefaultGeminiVoice = "Kore"

// GeminiVoices lists prebuilt voices supported by the Gemini TTS models
var GeminiVoices = []string{
	"Zephyr", "Puck", "Charon", "Kore", "Fenrir", "Leda",
	"Orus", "Aoede", "Callirrhoe", "Autonoe", "Enceladus", "Iapetus",
}

// Gemini TTS returns raw PCM at this rate, 16-bit mono
const (
	geminiSampleRate    = 24000
	geminiBitsPerSample = 16
	geminiChannels      = 1
)

// GeminiProvider implements Provider interface for Gemini TTS
type GeminiProvider struct {
	client *genai.Client
	config *Config
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(config *Config) (Provider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// GenerateAudio generates audio using Gemini TTS. Gemini returns raw PCM,
// so the output is always a WAV file regardless of the configured format.
func (p *GeminiProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	voice := p.config.Voice
	if voice == "" {
		voice = DefaultGeminiVoice
	}

	model := p.config.GeminiModel
	if model == "" {
		model = "gemini-2.5-flash-preview-tts"
	}

	fmt.Printf("Gemini TTS: Using model '%s' with voice '%s'\n", model, voice)

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(text),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
						VoiceName: voice,
					},
				},
			},
		})
	if err != nil {
		return fmt.Errorf("Gemini TTS API error: %w", err)
	}

	pcm, err := extractPCM(resp)
	if err != nil {
		return err
	}

	// Gemini delivers PCM, not an encoded container
	if strings.ToLower(filepath.Ext(outputFile)) != ".wav" {
		outputFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".wav"
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	return writeWAV(outputFile, pcm, geminiSampleRate, geminiBitsPerSample, geminiChannels)
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if the Gemini API is accessible
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}

func extractPCM(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no audio data received from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no audio data received from Gemini")
	}
	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, fmt.Errorf("no audio data received from Gemini")
}

// writeWAV wraps raw PCM samples in a RIFF/WAVE header
func writeWAV(path string, pcm []byte, sampleRate, bitsPerSample, channels int) error {
	var buf bytes.Buffer

	dataLen := len(pcm)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(pcm)

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}
