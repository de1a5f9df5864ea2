package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIClientInterface defines the interface for OpenAI client operations
type OpenAIClientInterface interface {
	CreateChatCompletion(ctx context.Context, model, systemPrompt string) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client. baseURL is optional.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIClient{client: &client}
}

// CreateChatCompletion sends the prompt as the single system message
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, model, systemPrompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// promptLogSeparator sits between the prompt and the response in LLM log files
const promptLogSeparator = "\n\n==========\n\n"

// Enhancer rewrites raw transcripts into HTML chapters with a chat model and
// keeps the results in the improved directory
type Enhancer struct {
	client     OpenAIClientInterface
	apiKey     string
	baseURL    string
	clientOnce sync.Once

	prompts     *PromptManager
	model       string
	timeout     time.Duration
	improvedDir string
	logDir      string
	now         func() time.Time
}

// EnhancerOption customizes Enhancer creation
type EnhancerOption func(*Enhancer)

// WithOpenAIClient sets a custom chat completion client
func WithOpenAIClient(client OpenAIClientInterface) EnhancerOption {
	return func(e *Enhancer) {
		e.client = client
	}
}

// WithClock sets the time source used to name log files
func WithClock(now func() time.Time) EnhancerOption {
	return func(e *Enhancer) {
		e.now = now
	}
}

// NewEnhancer creates an enhancer; the OpenAI client is created on first use
func NewEnhancer(config *Config, prompts *PromptManager, apiKey string, options ...EnhancerOption) *Enhancer {
	e := &Enhancer{
		apiKey:      apiKey,
		baseURL:     config.OpenAIBaseURL,
		prompts:     prompts,
		model:       config.Model,
		timeout:     config.EnhanceTimeout,
		improvedDir: config.ImprovedDir,
		logDir:      config.LLMLogDir,
		now:         time.Now,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// ensureClient initializes the OpenAI client if needed
func (e *Enhancer) ensureClient() error {
	if e.client != nil {
		return nil
	}
	if e.apiKey == "" {
		return ValidateOpenAIAPIKey("")
	}
	e.clientOnce.Do(func() {
		e.client = NewOpenAIClient(e.apiKey, e.baseURL)
	})
	return nil
}

// Existing returns the stored enhanced transcript called name, if any
func (e *Enhancer) Existing(name string) (string, bool, error) {
	path := filepath.Join(e.improvedDir, name)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading enhanced transcript: %w", err)
	}
	return string(content), true, nil
}

// Enhance corrects and formats transcript into HTML chapters. Every call is
// logged to the LLM log directory; when name is set the result is also
// stored under that name in the improved directory.
func (e *Enhancer) Enhance(ctx context.Context, video *Video, transcript, name string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("transcript is empty")
	}
	if err := e.ensureClient(); err != nil {
		return "", err
	}

	prompt, err := e.prompts.CreatePrompt(transcript, video)
	if err != nil {
		return "", fmt.Errorf("creating prompt: %w", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	content, err := e.client.CreateChatCompletion(ctx, e.model, prompt)
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}

	enhanced := CleanEnhancedTranscript(content)

	if err := e.writeLog(prompt, enhanced); err != nil {
		return "", err
	}

	if name != "" {
		if err := EnsureDirs(e.improvedDir); err != nil {
			return "", fmt.Errorf("creating improved directory: %w", err)
		}
		if err := os.WriteFile(filepath.Join(e.improvedDir, name), []byte(enhanced), 0644); err != nil {
			return "", fmt.Errorf("saving enhanced transcript: %w", err)
		}
	}

	return enhanced, nil
}

// writeLog stores one prompt/response pair, named by the call time
func (e *Enhancer) writeLog(prompt, response string) error {
	if e.logDir == "" {
		return nil
	}
	if err := EnsureDirs(e.logDir); err != nil {
		return fmt.Errorf("creating LLM log directory: %w", err)
	}
	now := e.now()
	name := fmt.Sprintf("%d.%06d_gpt3.txt", now.Unix(), now.Nanosecond()/1000)
	if err := os.WriteFile(filepath.Join(e.logDir, name), []byte(prompt+promptLogSeparator+response), 0644); err != nil {
		return fmt.Errorf("writing LLM log: %w", err)
	}
	return nil
}

// Chapter is one titled section of an enhanced transcript
type Chapter struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ChaptersToHTML converts a JSON array of chapters to the chapter HTML layout
func ChaptersToHTML(jsonStr string) (string, error) {
	var chapters []Chapter
	if err := json.Unmarshal([]byte(jsonStr), &chapters); err != nil {
		return "", fmt.Errorf("parsing chapters: %w", err)
	}

	var sb strings.Builder
	for _, chapter := range chapters {
		fmt.Fprintf(&sb, "<p><strong>%s</strong><br/>\n\t%s</p>\n", chapter.Title, chapter.Content)
	}
	return sb.String(), nil
}

// CleanEnhancedTranscript fixes small formatting defaults of model output:
// chapters returned as JSON become HTML and adjacent paragraphs get their
// own line.
func CleanEnhancedTranscript(content string) string {
	if trimmed := stripFences(content); strings.HasPrefix(trimmed, "[") {
		if html, err := ChaptersToHTML(trimmed); err == nil {
			content = html
		}
	}
	return strings.ReplaceAll(content, "</p> <p>", "</p>\n<p>")
}

// stripFences removes markdown code fences from model output
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
