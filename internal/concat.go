package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MusicMarker is the caption placeholder YouTube inserts over background music
const MusicMarker = "[Musique]"

// RemoveMusicMarkers deletes every [Musique] marker and nothing else
func RemoveMusicMarkers(s string) string {
	return strings.ReplaceAll(s, MusicMarker, "")
}

// ExpandTranscriptPaths keeps files as given and replaces each directory by
// its *.txt files sorted by name
func ExpandTranscriptPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.txt"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

// Subject is the file's base name up to the first dot
func Subject(path string) string {
	name, _, _ := strings.Cut(filepath.Base(path), ".")
	return name
}

// ConcatTranscripts reads files in order and joins them as
// "Sujet: <subject>\n<content>\n\n" blocks
func ConcatTranscripts(paths []string) (string, error) {
	var sb strings.Builder
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		fmt.Fprintf(&sb, "%s\n%s\n\n", "Sujet: "+Subject(path), RemoveMusicMarkers(string(data)))
	}
	return sb.String(), nil
}

// DefaultConcatOutput names the output after the directory of the first file
func DefaultConcatOutput(firstPath string) string {
	dir := filepath.Dir(firstPath)
	abs, err := filepath.Abs(dir)
	if err == nil {
		dir = abs
	}
	return filepath.Join(dir, "Concatenated_"+filepath.Base(dir)+".txt")
}
