package internal

import (
	"fmt"
	"os"
	"strings"
)

// Template placeholders substituted in the page template
const (
	TokenThumbnailURL       = "###thumbnail_url###"
	TokenVideoName          = "###video_name###"
	TokenVideoURL           = "###video_url###"
	TokenVideoDescription   = "###video_description###"
	TokenEnhancedTranscript = "###enhanced_transcript###"
)

var pageTokens = []string{
	TokenThumbnailURL,
	TokenVideoName,
	TokenVideoURL,
	TokenVideoDescription,
	TokenEnhancedTranscript,
}

// PageRenderer generates the help page of one video from an HTML template
type PageRenderer struct {
	templatePath string
	ui           UIManager
}

// NewPageRenderer creates a renderer for the template at templatePath
func NewPageRenderer(templatePath string, ui UIManager) *PageRenderer {
	return &PageRenderer{templatePath: templatePath, ui: ui}
}

// Render reads the template and substitutes the video fields into it
func (r *PageRenderer) Render(video *Video, enhancedTranscript string) (string, error) {
	content, err := os.ReadFile(r.templatePath)
	if err != nil {
		return "", fmt.Errorf("reading page template: %w", err)
	}
	tmpl := string(content)

	if r.ui != nil {
		if missing := MissingTokens(tmpl); len(missing) > 0 {
			r.ui.Verbose("Warning: template %s lacks %s\n", r.templatePath, strings.Join(missing, ", "))
		}
	}

	return FillTemplate(tmpl, video, enhancedTranscript), nil
}

// FillTemplate replaces every placeholder in a single pass. Substituted
// values are never scanned for placeholders themselves.
func FillTemplate(tmpl string, video *Video, enhancedTranscript string) string {
	replacer := strings.NewReplacer(
		TokenThumbnailURL, video.ThumbnailURL,
		TokenVideoName, video.Title,
		TokenVideoURL, video.EmbedURL,
		TokenVideoDescription, video.Description,
		TokenEnhancedTranscript, enhancedTranscript,
	)
	return replacer.Replace(tmpl)
}

// MissingTokens lists the placeholders absent from tmpl
func MissingTokens(tmpl string) []string {
	var missing []string
	for _, token := range pageTokens {
		if !strings.Contains(tmpl, token) {
			missing = append(missing, token)
		}
	}
	return missing
}
