package services

import (
	"strings"
	"testing"
)

func TestGenerateBlobKey(t *testing.T) {
	key := GenerateBlobKey("vacation photo.jpg")

	if strings.Contains(key, " ") {
		t.Errorf("key %q contains spaces", key)
	}
	if !strings.HasSuffix(key, "_vacation_photo.jpg") {
		t.Errorf("key %q lost the sanitized filename", key)
	}

	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 || parts[0] == "" {
		t.Fatalf("key %q has no timestamp prefix", key)
	}
	for _, r := range parts[0] {
		if r < '0' || r > '9' {
			t.Errorf("timestamp prefix %q is not numeric", parts[0])
		}
	}
}

func TestGenerateBlobKeyStripsPath(t *testing.T) {
	key := GenerateBlobKey("../../etc/passwd")
	if strings.Contains(key, "/") {
		t.Errorf("key %q kept path separators", key)
	}
	if !strings.HasSuffix(key, "_passwd") {
		t.Errorf("key %q did not keep the base name", key)
	}
}
