package object

import (
	"errors"
	"strings"
	"testing"
)

func TestNewKeyFormat(t *testing.T) {
	t.Parallel()

	gen := NewKeyGeneratorWithSource(func() string { return "0f8e6c1e-2b7a-4c39-9a55-6c1d2f6b7e10" })

	tests := []struct {
		name     string
		folder   string
		fileName string
		want     string
	}{
		{name: "resume folder", folder: "resumes/user_42", fileName: "cv.pdf", want: "resumes/user_42/0f8e6c1e-2b7a-4c39-9a55-6c1d2f6b7e10_cv.pdf"},
		{name: "cover letters", folder: "cover-letters", fileName: "letter.pdf", want: "cover-letters/0f8e6c1e-2b7a-4c39-9a55-6c1d2f6b7e10_letter.pdf"},
		{name: "empty name placeholder", folder: "resumes", fileName: "", want: "resumes/0f8e6c1e-2b7a-4c39-9a55-6c1d2f6b7e10_file.pdf"},
		{name: "separators stripped", folder: "resumes", fileName: "a/b\\c.pdf", want: "resumes/0f8e6c1e-2b7a-4c39-9a55-6c1d2f6b7e10_a_b_c.pdf"},
		{name: "folder slashes trimmed", folder: "/resumes/", fileName: "cv.pdf", want: "resumes/0f8e6c1e-2b7a-4c39-9a55-6c1d2f6b7e10_cv.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := gen.NewKey(tt.folder, tt.fileName)
			if err != nil {
				t.Fatalf("NewKey: %v", err)
			}
			if got != tt.want {
				t.Fatalf("NewKey(%q, %q) = %q, want %q", tt.folder, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestNewKeyRejectsTraversal(t *testing.T) {
	t.Parallel()

	gen := NewKeyGenerator()
	for _, name := range []string{"../secret.pdf", `..\..\x.pdf`, "a..pdf"} {
		if _, err := gen.NewKey("resumes", name); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("NewKey(%q) error = %v, want ErrInvalidKey", name, err)
		}
	}
	if _, err := gen.NewKey("../resumes", "cv.pdf"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected traversal folder to be rejected, got %v", err)
	}
}

func TestNewKeyIsUnique(t *testing.T) {
	t.Parallel()

	gen := NewKeyGenerator()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		key, err := gen.NewKey("resumes", "cv.pdf")
		if err != nil {
			t.Fatalf("NewKey: %v", err)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key generated: %s", key)
		}
		if !strings.HasSuffix(key, "_cv.pdf") {
			t.Fatalf("unexpected key shape: %s", key)
		}
		seen[key] = struct{}{}
	}
}

func TestValidateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: "resumes/user_1/abc_cv.pdf"},
		{key: "cover-letters/abc_x.pdf"},
		{key: "", wantErr: true},
		{key: "/etc/passwd", wantErr: true},
		{key: "resumes/../../etc/passwd", wantErr: true},
		{key: `resumes\..\..\boot.ini`, wantErr: true},
	}

	for _, tt := range tests {
		err := ValidateKey(tt.key)
		if tt.wantErr && !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("ValidateKey(%q) = %v, want ErrInvalidKey", tt.key, err)
		}
		if !tt.wantErr && err != nil {
			t.Fatalf("ValidateKey(%q) unexpected error: %v", tt.key, err)
		}
	}
}
