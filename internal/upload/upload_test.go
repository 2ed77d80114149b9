package upload

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/config"
)

var (
	pngData = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	gifData = append([]byte("GIF89a"), make([]byte, 32)...)
	txtData = []byte("just some text, definitely not an image")
)

type testFile struct {
	name string
	data []byte
}

// formFiles builds multipart file headers the way fiber hands them to handlers.
func formFiles(t *testing.T, files ...testFile) []*multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	for _, f := range files {
		part, err := w.CreateFormFile("images", f.name)
		require.NoError(t, err)

		_, err = part.Write(f.data)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)

	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["images"]
}

func newTestStorage(t *testing.T, maxSize int64) *Storage {
	t.Helper()

	s, err := New(config.Upload{
		Dir:         filepath.Join(t.TempDir(), "uploads"),
		URLPrefix:   "/uploads",
		MaxFileSize: maxSize,
		MaxFiles:    5,
	})
	require.NoError(t, err)

	return s
}

func dirEntries(t *testing.T, s *Storage) int {
	t.Helper()

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)

	return len(entries)
}

func TestValidate(t *testing.T) {
	s := newTestStorage(t, 64)

	testCases := []struct {
		name    string
		files   []testFile
		wantMsg string
	}{
		{name: "no files"},
		{name: "png", files: []testFile{{"a.png", pngData}}},
		{name: "gif with upper ext", files: []testFile{{"a.GIF", gifData}}},
		{name: "text renamed to png", files: []testFile{{"a.png", txtData}}, wantMsg: MsgNotImage},
		{name: "png bytes with txt ext", files: []testFile{{"a.txt", pngData}}, wantMsg: MsgNotImage},
		{name: "gif bytes with png ext", files: []testFile{{"a.png", gifData}}, wantMsg: MsgNotImage},
		{name: "too large", files: []testFile{{"big.png", append(pngData, make([]byte, 64)...)}}, wantMsg: MsgTooLarge},
		{
			name:    "one bad file rejects all",
			files:   []testFile{{"a.png", pngData}, {"b.pdf", []byte("%PDF-1.4")}},
			wantMsg: MsgNotImage,
		},
		{
			name: "too many files",
			files: []testFile{
				{"1.png", pngData}, {"2.png", pngData}, {"3.png", pngData},
				{"4.png", pngData}, {"5.png", pngData}, {"6.png", pngData},
			},
			wantMsg: "Too many files. Max 5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Validate(formFiles(t, tc.files...))

			if tc.wantMsg == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, catalog.ErrValidation)
			assert.Equal(t, tc.wantMsg, err.Error())
		})
	}
}

func TestSave(t *testing.T) {
	s := newTestStorage(t, 1024)

	refs, err := s.Save(formFiles(t, testFile{"front.png", pngData}, testFile{"Back.GIF", gifData}))
	require.NoError(t, err)
	require.Len(t, refs, 2)

	assert.True(t, strings.HasPrefix(refs[0], "/uploads/"))
	assert.True(t, strings.HasSuffix(refs[0], ".png"))
	assert.True(t, strings.HasSuffix(refs[1], ".gif"))
	assert.NotEqual(t, refs[0], refs[1])

	stored, err := os.ReadFile(filepath.Join(s.Dir(), strings.TrimPrefix(refs[0], "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pngData, stored)

	s.Remove(refs)
	assert.Zero(t, dirEntries(t, s))
}

func TestSave_RejectedWritesNothing(t *testing.T) {
	s := newTestStorage(t, 1024)

	refs, err := s.Save(formFiles(t, testFile{"ok.png", pngData}, testFile{"notes.txt", txtData}))
	require.ErrorIs(t, err, ErrNotImage)
	assert.Nil(t, refs)
	assert.Zero(t, dirEntries(t, s))
}

func TestRemove_IgnoresForeignRefs(t *testing.T) {
	s := newTestStorage(t, 1024)

	outside := filepath.Join(filepath.Dir(s.Dir()), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	s.Remove([]string{"/uploads/../keep.txt", "https://cdn.example.com/a.png", "/uploads/", "keep.txt"})

	_, err := os.Stat(outside)
	require.NoError(t, err)
}
