package audio

import (
	"context"
	"fmt"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider     string  // Provider name: "openai", "gemini", "espeak" or "auto"
	OutputDir    string  // Directory for output files
	OutputFormat string  // Output format: "mp3" or "wav"
	Voice        string  // Provider-specific voice name (empty selects the provider default)
	Speed        float64 // Speech speed, 0.25 to 4.0 (OpenAI only)
	Instruction  string  // Voice instructions for gpt-4o-mini-tts model
	Language     string  // Language code for espeak-ng

	// API keys
	OpenAIKey string
	GeminiKey string

	// Models
	OpenAIModel string // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	GeminiModel string // TTS-capable Gemini model

	// On-disk audio cache
	CacheDir    string
	EnableCache bool
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:     "auto",
		OutputDir:    "./",
		OutputFormat: "mp3",
		Speed:        1.0,
		Language:     "en",
		OpenAIModel:  "gpt-4o-mini-tts",
		GeminiModel:  "gemini-2.5-flash-preview-tts",
	}
}

// NewProvider creates the appropriate audio provider based on configuration.
// "auto" picks the first configured provider, preferring OpenAI, then Gemini,
// then espeak-ng, and chains espeak-ng as fallback when installed.
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiProvider(config)

	case "espeak":
		return NewESpeakProvider(espeakConfigFrom(config))

	case "auto", "":
		return newAutoProvider(config)

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}

func newAutoProvider(config *Config) (Provider, error) {
	var primary Provider
	var err error

	switch {
	case config.OpenAIKey != "":
		primary, err = NewOpenAIProvider(config)
	case config.GeminiKey != "":
		primary, err = NewGeminiProvider(config)
	}
	if err != nil {
		return nil, err
	}

	espeakErr := checkESpeakInstalled()

	if primary == nil {
		if espeakErr != nil {
			return nil, fmt.Errorf("no audio provider available: set OPENAI_API_KEY or GEMINI_API_KEY, or install espeak-ng")
		}
		return NewESpeakProvider(espeakConfigFrom(config))
	}

	if espeakErr == nil {
		fallback, fbErr := NewESpeakProvider(espeakConfigFrom(config))
		if fbErr == nil {
			return NewProviderWithFallback(primary, fallback), nil
		}
	}

	return primary, nil
}

func espeakConfigFrom(config *Config) *ESpeakConfig {
	espeakConfig := DefaultESpeakConfig()
	if config.Language != "" {
		espeakConfig.Voice = config.Language
	}
	if config.OutputDir != "" {
		espeakConfig.OutputDir = config.OutputDir
	}
	return espeakConfig
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err != nil {
		// Log the primary error
		fmt.Printf("Primary provider (%s) failed: %v. Falling back to %s\n",
			p.primary.Name(), err, p.fallback.Name())

		// Try fallback
		return p.fallback.GenerateAudio(ctx, text, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
