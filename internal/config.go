package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds application settings
type Config struct {
	// Source
	ChannelID           string
	TranscriptLanguages []string
	Lister              string

	// Enhancement
	Model          string
	Prompt         string
	OpenAIAPIKey   string
	OpenAIKeyFile  string
	OpenAIBaseURL  string
	EnhanceTimeout time.Duration

	// Search
	GoogleAPIKey  string
	GoogleKeyFile string

	// Help content layout
	TOCFile        string
	TOCHrefPrefix  string
	VideoListFile  string
	TemplateFile   string
	HTMLDir        string
	TranscriptsDir string
	ImprovedDir    string
	LLMLogDir      string
	ErrorLog       string

	HTTPTimeout time.Duration
	Verbose     bool
	Quiet       bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
}

//go:embed config.toml prompt.txt
var defaultFS embed.FS

// DefaultChannelID is the help channel the batch and search commands target
const DefaultChannelID = "UCEwkL7_F9fob_wOIRBuRL6Q"

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Fprintf(os.Stderr, "Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultPrompt checks if a prompt.txt file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultPrompt(configDir string) error {
	return ensureDefaultFile(configDir, "prompt.txt", "prompt template")
}

// InitConfig initializes Viper and loads configuration. configFile, when set,
// replaces the search in the working directory and XDG config directory.
func InitConfig(configFile string) *Config {
	configDir := filepath.Join(xdg.ConfigHome, "ythelp")

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir)
	}

	v.SetEnvPrefix("YTHELP")
	v.AutomaticEnv()

	_ = v.BindEnv("openai_api_key", "YTHELP_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("google_api_key", "YTHELP_GOOGLE_API_KEY", "YOUTUBE_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := configFromViper(v)
	config.ConfigDir = configDir

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("channel_id", DefaultChannelID)
	v.SetDefault("transcript_languages", []string{"fr"})
	v.SetDefault("lister", ListerInnertube)

	v.SetDefault("model", "gpt-4")
	v.SetDefault("prompt", "") // empty uses prompt.txt from the config directory
	v.SetDefault("openai_key_file", "key_openai.txt")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("enhance_timeout", 5*time.Minute)

	v.SetDefault("google_key_file", "key_googleapi.txt")

	v.SetDefault("toc_file", filepath.Join("Videos", "toc", "Default.toc"))
	v.SetDefault("toc_href_prefix", "../contents/")
	v.SetDefault("video_list_file", "video_data.json")
	v.SetDefault("template_file", filepath.Join("Videos", "youtube_template", "video_template.htm"))
	v.SetDefault("html_dir", filepath.Join("Videos", "contents"))
	v.SetDefault("transcripts_dir", "transcripts")
	v.SetDefault("improved_dir", "improved")
	v.SetDefault("llm_log_dir", "gpt3_logs")
	v.SetDefault("error_log", "error.log")

	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
}

func configFromViper(v *viper.Viper) *Config {
	return &Config{
		ChannelID:           v.GetString("channel_id"),
		TranscriptLanguages: v.GetStringSlice("transcript_languages"),
		Lister:              v.GetString("lister"),

		Model:          v.GetString("model"),
		Prompt:         v.GetString("prompt"),
		OpenAIAPIKey:   strings.TrimSpace(v.GetString("openai_api_key")),
		OpenAIKeyFile:  v.GetString("openai_key_file"),
		OpenAIBaseURL:  v.GetString("openai_base_url"),
		EnhanceTimeout: v.GetDuration("enhance_timeout"),

		GoogleAPIKey:  strings.TrimSpace(v.GetString("google_api_key")),
		GoogleKeyFile: v.GetString("google_key_file"),

		TOCFile:        absPath(v.GetString("toc_file")),
		TOCHrefPrefix:  v.GetString("toc_href_prefix"),
		VideoListFile:  absPath(v.GetString("video_list_file")),
		TemplateFile:   absPath(v.GetString("template_file")),
		HTMLDir:        absPath(v.GetString("html_dir")),
		TranscriptsDir: absPath(v.GetString("transcripts_dir")),
		ImprovedDir:    absPath(v.GetString("improved_dir")),
		LLMLogDir:      absPath(v.GetString("llm_log_dir")),
		ErrorLog:       absPath(v.GetString("error_log")),

		HTTPTimeout: v.GetDuration("http_timeout"),
		Verbose:     v.GetBool("verbose"),
		Quiet:       v.GetBool("quiet"),
	}
}

// absPath resolves p against the working directory, leaving it untouched on failure
func absPath(p string) string {
	if p == "" {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// ResolveOpenAIKey returns the configured OpenAI key, falling back to the
// flat credential file
func (c *Config) ResolveOpenAIKey() (string, error) {
	return resolveKey(c.OpenAIAPIKey, c.OpenAIKeyFile, "OpenAI", "openai_api_key or OPENAI_API_KEY")
}

// ResolveGoogleKey returns the configured YouTube Data API key, falling back
// to the flat credential file
func (c *Config) ResolveGoogleKey() (string, error) {
	return resolveKey(c.GoogleAPIKey, c.GoogleKeyFile, "Google API", "google_api_key or YTHELP_GOOGLE_API_KEY")
}

func resolveKey(value, keyFile, name, setting string) (string, error) {
	if value != "" {
		return value, nil
	}
	if keyFile != "" && FileExists(keyFile) {
		key, err := ReadKeyFile(keyFile)
		if err != nil {
			return "", err
		}
		if key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("%s key is required - set %s, or put it in %s", name, setting, keyFile)
}

// ReadKeyFile reads a flat text credential file and trims surrounding whitespace
func ReadKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading key file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
