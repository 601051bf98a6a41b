package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Status(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  string
	}{
		{"icon", func(w *Writer) { w.Status("🔍", "Scanning") }, "🔍 Scanning\n"},
		{"no icon is indented", func(w *Writer) { w.Status("", "detail") }, "   detail\n"},
		{"success", func(w *Writer) { w.Successf("Volume %s added", "AB") }, "✅ Volume AB added\n"},
		{"warning", func(w *Writer) { w.Warning("index missing") }, "⚠️  index missing\n"},
		{"error", func(w *Writer) { w.Errorf("cannot remove %d", 3) }, "❌ cannot remove 3\n"},
		{"println", func(w *Writer) { w.Println("plain") }, "plain\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.write(New(buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriter_List(t *testing.T) {
	// Given: a writer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: listing two items and an empty list
	w.List("Root folders of Backup:", []string{"photos", "music"})
	w.List("never printed", nil)

	// Then
	assert.Equal(t, "Root folders of Backup:\n    photos\n    music\n", buf.String())
}

func TestWriter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}

	require.NoError(t, New(buf).JSON(map[string]int{"count": 2}))

	assert.JSONEq(t, `{"count":2}`, buf.String())
	assert.Contains(t, buf.String(), "\n  \"count\"")
}
