package morph

import (
	"bytes"
	"errors"
	"testing"
)

func TestGetHTMLPadding_ExactLength(t *testing.T) {
	content := []byte("<html></html>")
	target := len(content) + 20
	out := GetHTMLPadding(content, target)
	if len(out) != target {
		t.Fatalf("len = %d, want %d", len(out), target)
	}
	if !bytes.HasPrefix(out, content) {
		t.Errorf("padded output does not start with original content")
	}
}

func TestGetHTMLPadding_AlreadyAtTarget(t *testing.T) {
	content := []byte("<html></html>")
	out := GetHTMLPadding(content, len(content))
	if !bytes.Equal(out, content) {
		t.Errorf("content already at target should be unchanged")
	}
}

func TestGetHTMLPadding_SmallGapUsesWhitespace(t *testing.T) {
	content := []byte("x")
	out := GetHTMLPadding(content, len(content)+3)
	if len(out) != len(content)+3 {
		t.Fatalf("len = %d, want %d", len(out), len(content)+3)
	}
}

func TestGetCommentPadding_MinimumFourBytes(t *testing.T) {
	content := []byte("body{}")
	_, err := GetCommentPadding(content, len(content)+2)
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("err = %v, want ErrConstraintViolation", err)
	}

	out, err := GetCommentPadding(content, len(content)+4)
	if err != nil {
		t.Fatalf("GetCommentPadding: %v", err)
	}
	if len(out) != len(content)+4 {
		t.Fatalf("len = %d, want %d", len(out), len(content)+4)
	}
}

func TestGetObjectPadding_ReturnsOnlyDelta(t *testing.T) {
	padding, err := GetObjectPadding(KindCSS, 100, 150)
	if err != nil {
		t.Fatalf("GetObjectPadding: %v", err)
	}
	if len(padding) != 50 {
		t.Fatalf("len(padding) = %d, want 50", len(padding))
	}
}

func TestGetObjectPadding_TargetNotGreaterThanCurrent(t *testing.T) {
	padding, err := GetObjectPadding(KindCSS, 100, 100)
	if err != nil {
		t.Fatalf("GetObjectPadding: %v", err)
	}
	if padding != nil {
		t.Errorf("padding = %v, want nil", padding)
	}
}

func TestGetObjectPadding_ImageIsContentBlindDelta(t *testing.T) {
	for _, kind := range []ObjectKind{KindIMG, KindCssImg} {
		padding, err := GetObjectPadding(kind, 100, 256)
		if err != nil {
			t.Fatalf("GetObjectPadding(%s): %v", kind, err)
		}
		if len(padding) != 156 {
			t.Fatalf("%s: len(padding) = %d, want 156", kind, len(padding))
		}
	}
}

func TestGetObjectPadding_ImageTargetNotGreaterThanCurrent(t *testing.T) {
	padding, err := GetObjectPadding(KindIMG, 100, 100)
	if err != nil {
		t.Fatalf("GetObjectPadding: %v", err)
	}
	if padding != nil {
		t.Errorf("padding = %v, want nil", padding)
	}
}

func TestDetectImageFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want ImageFormat
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, ImageJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, ImagePNG},
		{"gif87", []byte("GIF87a"), ImageGIF},
		{"gif89", []byte("GIF89a"), ImageGIF},
		{"unknown", []byte("not an image"), ImageUnknown},
	}
	for _, tt := range tests {
		if got := DetectImageFormat(tt.data); got != tt.want {
			t.Errorf("%s: DetectImageFormat = %v, want %v", tt.name, got, tt.want)
		}
	}
}
