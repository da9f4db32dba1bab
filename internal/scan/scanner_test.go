package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bishoy334/chat-analyser/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiscoverSkipsHiddenAndUnderscoreDirs(t *testing.T) {
	dir := t.TempDir()
	keep := writeFile(t, dir, "chat.txt", "hi")
	nested := writeFile(t, dir, filepath.Join("exports", "other.txt"), "hi")
	writeFile(t, dir, filepath.Join(".git", "lost.txt"), "hi")
	writeFile(t, dir, filepath.Join("_archive", "lost.txt"), "hi")
	writeFile(t, dir, ".hidden.txt", "hi")

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{keep, nested}, files)
}

func TestSniffFilenameHints(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		want model.Platform
	}{
		{"family.whatsapp.txt", model.PlatformWhatsApp},
		{"alice.insta.json", model.PlatformInstagram},
		{"backup.android.xml", model.PlatformAndroid},
		{"plain.txt", model.PlatformWhatsApp},
	}
	for _, tc := range cases {
		path := writeFile(t, dir, tc.name, "whatever")
		got, ok := Sniff(path)
		require.True(t, ok, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestSniffInstagramJSONByContent(t *testing.T) {
	dir := t.TempDir()
	insta := writeFile(t, dir, "messages.json",
		`{"participants":[{"name":"a"}],"messages":[]}`)
	other := writeFile(t, dir, "config.json", `{"setting": true}`)

	got, ok := Sniff(insta)
	require.True(t, ok)
	assert.Equal(t, model.PlatformInstagram, got)

	_, ok = Sniff(other)
	assert.False(t, ok)
}

func TestSniffAndroidXMLByContent(t *testing.T) {
	dir := t.TempDir()
	sms := writeFile(t, dir, "backup.xml", `<?xml version="1.0"?><smses count="1"></smses>`)
	other := writeFile(t, dir, "layout.xml", `<?xml version="1.0"?><LinearLayout/>`)

	got, ok := Sniff(sms)
	require.True(t, ok)
	assert.Equal(t, model.PlatformAndroid, got)

	_, ok = Sniff(other)
	assert.False(t, ok)
}

func TestDiscoverChats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "family.whatsapp.txt", "hi")
	writeFile(t, dir, "readme.md", "notes")

	out, err := DiscoverChats(dir)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, model.PlatformWhatsApp, out[0].Platform)
}

func TestTitleFor(t *testing.T) {
	cases := map[string]string{
		"/tmp/Family_Group.whatsapp.txt": "Family Group",
		"/tmp/alice.insta.json":          "alice",
		"/tmp/sms-backup.android.xml":    "sms backup",
		"/tmp/Chat With Bob.txt":         "Chat With Bob",
	}
	for path, want := range cases {
		assert.Equal(t, want, TitleFor(path), path)
	}
}
