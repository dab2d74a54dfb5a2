package lang_test

import (
	"errors"
	"testing"

	"github.com/jorujes/transcriberio/internal/lang"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"pt-BR", "pt-br"},
		{"pt_BR", "pt-br"},
		{"PT-BR", "pt-br"},
		{"en", "en"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lang.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := []string{"", "en", "fr", "pt-BR", "zh-CN", "PT_br"}
	for _, code := range valid {
		if err := lang.Validate(code); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", code, err)
		}
	}

	invalid := []string{"xx", "klingon", "q-QQ"}
	for _, code := range invalid {
		if err := lang.Validate(code); !errors.Is(err, lang.ErrInvalid) {
			t.Errorf("Validate(%q) = %v, want ErrInvalid", code, err)
		}
	}
}

func TestBaseCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"pt-BR", "pt"},
		{"pt_BR", "pt"},
		{"zh-CN", "zh"},
		{"en", "en"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lang.BaseCode(tt.in); got != tt.want {
			t.Errorf("BaseCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVariants(t *testing.T) {
	t.Parallel()

	variants := lang.Variants()
	if len(variants) != 20 {
		t.Fatalf("Variants() returned %d entries, want 20", len(variants))
	}
	for _, v := range variants {
		if v.Code == "" || v.Name == "" || v.Region == "" {
			t.Errorf("variant %+v has empty fields", v)
		}
		if err := lang.Validate(v.Code); err != nil {
			t.Errorf("variant code %q does not validate: %v", v.Code, err)
		}
	}
}

func TestFindVariant(t *testing.T) {
	t.Parallel()

	v, ok := lang.FindVariant("pt-br")
	if !ok || v.Code != "pt-BR" {
		t.Errorf("FindVariant(pt-br) = %+v, %v; want pt-BR, true", v, ok)
	}
	if v.DisplayName() != "Português (Brasil)" {
		t.Errorf("DisplayName() = %q", v.DisplayName())
	}

	if _, ok := lang.FindVariant("xx-XX"); ok {
		t.Error("FindVariant(xx-XX) = true, want false")
	}
}
