package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConcatTranscripts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Factures")
	a := writeFile(t, filepath.Join(dir, "creer_une_facture-transcript.txt"), "[Musique] bonjour [Musique]")
	b := writeFile(t, filepath.Join(dir, "envoyer.v2.txt"), "au revoir")

	got, err := ConcatTranscripts([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, "Sujet: creer_une_facture-transcript\n bonjour \n\nSujet: envoyer\nau revoir\n\n", got)
}

func TestConcatTranscriptsEmpty(t *testing.T) {
	got, err := ConcatTranscripts(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConcatTranscriptsMissingFile(t *testing.T) {
	_, err := ConcatTranscripts([]string{filepath.Join(t.TempDir(), "absent.txt")})
	assert.Error(t, err)
}

func TestExpandTranscriptPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "b")
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "notes.md"), "skip")
	single := writeFile(t, filepath.Join(t.TempDir(), "z.txt"), "z")

	got, err := ExpandTranscriptPaths([]string{single, dir})
	require.NoError(t, err)
	assert.Equal(t, []string{single, filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}, got)

	_, err = ExpandTranscriptPaths([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestDefaultConcatOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Devis")
	assert.Equal(t, filepath.Join(dir, "Concatenated_Devis.txt"), DefaultConcatOutput(filepath.Join(dir, "x.txt")))
}

func TestRemoveMusicMarkers(t *testing.T) {
	assert.Equal(t, " a  b", RemoveMusicMarkers("[Musique] a [Musique] b"))
	assert.Equal(t, "[musique]", RemoveMusicMarkers("[musique]"))
}
