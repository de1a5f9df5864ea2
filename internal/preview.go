package internal

import (
	"fmt"
	"os"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ChapterTitles lists the bold chapter headings of an enhanced transcript or page
func ChapterTitles(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var titles []string
	doc.Find("p > strong:first-child").Each(func(_ int, s *goquery.Selection) {
		if title := strings.TrimSpace(s.Text()); title != "" {
			titles = append(titles, title)
		}
	})
	return titles, nil
}

// HTMLToMarkdown converts a generated page or enhanced transcript to Markdown
func HTMLToMarkdown(html string) (string, error) {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// PreviewFile renders an HTML file for the terminal, or only its chapter
// list when chaptersOnly is set
func PreviewFile(path string, chaptersOnly bool) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	var md string
	if chaptersOnly {
		titles, err := ChapterTitles(string(content))
		if err != nil {
			return "", err
		}
		if len(titles) == 0 {
			return "", fmt.Errorf("no chapters found in %s", path)
		}
		var sb strings.Builder
		for i, title := range titles {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, title)
		}
		md = sb.String()
	} else {
		md, err = HTMLToMarkdown(string(content))
		if err != nil {
			return "", err
		}
	}

	return RenderMarkdown(md)
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}
