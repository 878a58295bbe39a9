package utils

import (
	"strings"
	"testing"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims whitespace", input: "  hello  ", want: "hello"},
		{name: "escapes html", input: "<b>bold</b>", want: "&lt;b&gt;bold&lt;/b&gt;"},
		{name: "strips control characters", input: "line\x00one", want: "lineone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeInput(tt.input); got != tt.want {
				t.Errorf("SanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if out := SanitizeInput("<script>alert(1)</script>rest"); strings.Contains(out, "alert(1)") && strings.Contains(out, "<script") {
		t.Errorf("script content survived sanitization: %q", out)
	}
}

func TestSanitizeEmail(t *testing.T) {
	got, err := SanitizeEmail("  Ana.Costa@Example.COM ")
	if err != nil {
		t.Fatalf("SanitizeEmail() = %v", err)
	}
	if got != "ana.costa@example.com" {
		t.Errorf("SanitizeEmail() = %q", got)
	}

	for _, bad := range []string{"", "not-an-email", "a@b", "ana@example"} {
		if _, err := SanitizeEmail(bad); err == nil {
			t.Errorf("SanitizeEmail(%q) accepted an invalid address", bad)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret123"); err != nil {
		t.Errorf("ValidatePassword(secret123) = %v", err)
	}
	for _, bad := range []string{"short1", "onlyletters", "12345678"} {
		if err := ValidatePassword(bad); err == nil {
			t.Errorf("ValidatePassword(%q) accepted a weak password", bad)
		}
	}
}

func TestValidateImageType(t *testing.T) {
	for _, ok := range []string{"photo.jpg", "photo.JPG", "pic.png", "anim.gif", "modern.webp"} {
		if err := ValidateImageType(ok); err != nil {
			t.Errorf("ValidateImageType(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"video.mp4", "doc.pdf", "noext", "archive.zip"} {
		if err := ValidateImageType(bad); err == nil {
			t.Errorf("ValidateImageType(%q) accepted a non-image", bad)
		}
	}
}
