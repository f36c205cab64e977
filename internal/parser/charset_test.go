package parser

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadUTF8_AlreadyUTF8(t *testing.T) {
	t.Parallel()
	input := "<html><body>Дубляж ☺</body></html>"
	got, err := ReadUTF8(strings.NewReader(input), "text/html; charset=utf-8")
	if err != nil {
		t.Fatalf("ReadUTF8 failed: %v", err)
	}
	if got != input {
		t.Errorf("expected UTF-8 content to pass through unchanged, got %q", got)
	}
}

func TestReadUTF8_Windows1251FromMeta(t *testing.T) {
	t.Parallel()
	// "Дубляж" in windows-1251
	word := []byte{0xC4, 0xF3, 0xE1, 0xEB, 0xFF, 0xE6}
	input := append([]byte(`<html><head><meta charset="windows-1251"></head><body>`), word...)
	input = append(input, []byte(`</body></html>`)...)

	got, err := ReadUTF8(bytes.NewReader(input), "")
	if err != nil {
		t.Fatalf("ReadUTF8 failed: %v", err)
	}
	if !strings.Contains(got, "Дубляж") {
		t.Errorf("expected windows-1251 text to be converted, got %q", got)
	}
}

func TestReadUTF8_CharsetFromContentType(t *testing.T) {
	t.Parallel()
	input := []byte{'<', 'p', '>', 0xE1, 0xEB, '<', '/', 'p', '>'}
	got, err := ReadUTF8(bytes.NewReader(input), "text/html; charset=windows-1251")
	if err != nil {
		t.Fatalf("ReadUTF8 failed: %v", err)
	}
	if got != "<p>бл</p>" {
		t.Errorf("got %q, want %q", got, "<p>бл</p>")
	}
}

func TestReadUTF8_LateNonASCIIStaysUTF8(t *testing.T) {
	t.Parallel()
	input := "WEBVTT\n\n" + strings.Repeat("00:00:01.000 --> 00:00:02.000\nplain ascii line\n\n", 40) +
		"00:10:00.000 --> 00:10:02.000\nПривет\n"
	got, err := ReadUTF8(strings.NewReader(input), "text/vtt")
	if err != nil {
		t.Fatalf("ReadUTF8 failed: %v", err)
	}
	if got != input {
		t.Error("valid UTF-8 without a declared charset must pass through unchanged")
	}
}
