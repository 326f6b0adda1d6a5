// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if valid, _ := cs.IsValid(); !valid {
			t.Errorf("%q should be valid", cs)
		}
	}

	valid, errs := ColorScheme("solarized").IsValid()
	if valid {
		t.Fatal("unknown color scheme should be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", errs[0])
	}
}

func TestBinaryFilePath_IsValid(t *testing.T) {
	t.Parallel()

	if valid, _ := BinaryFilePath("").IsValid(); !valid {
		t.Error("zero value should be valid")
	}
	if valid, _ := BinaryFilePath("/usr/bin/python3").IsValid(); !valid {
		t.Error("real path should be valid")
	}

	valid, errs := BinaryFilePath("   ").IsValid()
	if valid {
		t.Fatal("whitespace-only path should be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidBinaryFilePath) {
		t.Errorf("error should wrap ErrInvalidBinaryFilePath, got: %v", errs[0])
	}
}

func TestPinnedVersion_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value PinnedVersion
		valid bool
	}{
		{"", true},
		{"4.68", true},
		{"5", true},
		{"4.68.1", true},
		{"v4.68", false},
		{"4..68", false},
		{"latest", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.value.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid(%q) = %v, want %v", tt.value, valid, tt.valid)
			}
			if !valid && !errors.Is(errs[0], ErrInvalidPinnedVersion) {
				t.Errorf("error should wrap ErrInvalidPinnedVersion, got: %v", errs[0])
			}
		})
	}
}

func TestNinjaConfig_IsValid(t *testing.T) {
	t.Parallel()

	good := NinjaConfig{CoreMultiplier: 80, CoreAddition: 2}
	if valid, _ := good.IsValid(); !valid {
		t.Error("default-shaped ninja config should be valid")
	}

	bad := NinjaConfig{CoreMultiplier: -1, CoreLimit: -5}
	valid, errs := bad.IsValid()
	if valid {
		t.Fatal("negative knobs should be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidNinjaConfig) {
		t.Errorf("error should wrap ErrInvalidNinjaConfig, got: %v", errs[0])
	}

	var ne *InvalidNinjaConfigError
	if !errors.As(errs[0], &ne) {
		t.Fatalf("error should be *InvalidNinjaConfigError, got %T", errs[0])
	}
	if len(ne.FieldErrors) != 2 {
		t.Errorf("field errors = %d, want 2", len(ne.FieldErrors))
	}
}

func TestConfig_IsValid_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Ninja.CoreMultiplier = -1
	cfg.Gsutil.Version = "nope"
	cfg.UI.ColorScheme = "sepia"

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("config with three bad fields should be invalid")
	}

	var ce *InvalidConfigError
	if !errors.As(errs[0], &ce) {
		t.Fatalf("error should be *InvalidConfigError, got %T", errs[0])
	}
	if len(ce.FieldErrors) != 3 {
		t.Errorf("field errors = %d, want 3: %v", len(ce.FieldErrors), ce.FieldErrors)
	}
}

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Errorf("DefaultConfig should always be valid: %v", errs)
	}
}
