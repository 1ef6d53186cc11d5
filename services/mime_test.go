package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMimeTypeByExtension(t *testing.T) {
	cases := map[string]string{
		"report.pdf":     "application/pdf",
		"PHOTO.JPG":      "image/jpeg",
		"archive.zip":    "application/zip",
		"song.mp3":       "audio/mpeg",
		"clip.mp4":       "video/mp4",
		"page.html":      "text/html",
		"data.json":      "application/json",
		"sheet.xlsx":     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"noextension":    "application/octet-stream",
		"weird.unknown":  "application/octet-stream",
		"notes.txt":      "text/plain",
		"vector.svg":     "image/svg+xml",
		"animation.webp": "image/webp",
	}

	for filename, want := range cases {
		assert.Equal(t, want, MimeTypeByExtension(filename), filename)
	}
}
