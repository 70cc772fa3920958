package util

import (
	"strings"
	"testing"
)

func TestContentHash(t *testing.T) {
	testCases := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name:     "Empty content",
			content:  []byte(""),
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "Simple text",
			content:  []byte("abc"),
			expected: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ContentHash(tc.content); got != tc.expected {
				t.Errorf("Expected hash %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestETag(t *testing.T) {
	tag := ETag([]byte("abc"))

	if !strings.HasPrefix(tag, `"`) || !strings.HasSuffix(tag, `"`) {
		t.Errorf("Expected quoted entity tag, got %s", tag)
	}
	if tag != `"ba7816bf8f01cfea"` {
		t.Errorf("Expected truncated hash tag, got %s", tag)
	}
	if ETag([]byte("abd")) == tag {
		t.Error("Expected different content to produce a different tag")
	}
}
