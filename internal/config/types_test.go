// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestSifPreference_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value SifPreference
		want  bool
	}{
		{"auto", SifPreferAuto, true},
		{"apptainer", SifPreferApptainer, true},
		{"singularity", SifPreferSingularity, true},
		{"empty", SifPreference(""), false},
		{"unknown", SifPreference("docker"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid() = %v, want %v", valid, tt.want)
			}
			if !tt.want {
				if len(errs) != 1 {
					t.Fatalf("expected 1 validation error, got %d", len(errs))
				}
				if !errors.Is(errs[0], ErrInvalidSifPreference) {
					t.Errorf("error should wrap ErrInvalidSifPreference, got %v", errs[0])
				}
			}
		})
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value ColorScheme
		want  bool
	}{
		{"auto", ColorSchemeAuto, true},
		{"dark", ColorSchemeDark, true},
		{"light", ColorSchemeLight, true},
		{"empty", ColorScheme(""), false},
		{"unknown", ColorScheme("solarized"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid() = %v, want %v", valid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidColorScheme) {
				t.Errorf("error should wrap ErrInvalidColorScheme, got %v", errs[0])
			}
		})
	}
}

func TestWalltime_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value Walltime
		want  bool
	}{
		{"empty omits directive", Walltime(""), true},
		{"minutes", Walltime("90"), true},
		{"minutes seconds", Walltime("30:00"), true},
		{"hours minutes seconds", Walltime("02:00:00"), true},
		{"days hours", Walltime("1-12"), true},
		{"days hours minutes", Walltime("1-12:30"), true},
		{"days hours minutes seconds", Walltime("2-00:00:00"), true},
		{"words", Walltime("two hours"), false},
		{"trailing garbage", Walltime("02:00:00x"), false},
		{"single digit seconds", Walltime("02:00:0"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.value, valid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidWalltime) {
				t.Errorf("error should wrap ErrInvalidWalltime, got %v", errs[0])
			}
		})
	}
}

func TestMemorySpec_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value MemorySpec
		want  bool
	}{
		{"empty omits directive", MemorySpec(""), true},
		{"plain megabytes", MemorySpec("16384"), true},
		{"gigabytes", MemorySpec("8G"), true},
		{"lowercase suffix", MemorySpec("512m"), true},
		{"terabytes", MemorySpec("1T"), true},
		{"missing number", MemorySpec("G"), false},
		{"unknown suffix", MemorySpec("8GB"), false},
		{"negative", MemorySpec("-8G"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.value, valid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidMemorySpec) {
				t.Errorf("error should wrap ErrInvalidMemorySpec, got %v", errs[0])
			}
		})
	}
}

func TestBinaryFilePath_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value BinaryFilePath
		want  bool
	}{
		{"zero value means default", BinaryFilePath(""), true},
		{"binary name", BinaryFilePath("podman"), true},
		{"absolute path", BinaryFilePath("/usr/local/bin/docker"), true},
		{"whitespace only", BinaryFilePath("   "), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.value, valid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidBinaryFilePath) {
				t.Errorf("error should wrap ErrInvalidBinaryFilePath, got %v", errs[0])
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		valid, errs := DefaultConfig().IsValid()
		if !valid {
			t.Errorf("DefaultConfig should be valid, got errors: %v", errs)
		}
	})

	t.Run("collects nested field errors", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Sif.Prefer = "docker"
		cfg.HPC.Time = "whenever"

		valid, errs := cfg.IsValid()
		if valid {
			t.Fatal("config with bad sif.prefer and hpc.time should be invalid")
		}
		if len(errs) != 1 {
			t.Fatalf("expected 1 wrapping error, got %d", len(errs))
		}
		if !errors.Is(errs[0], ErrInvalidConfig) {
			t.Errorf("error should wrap ErrInvalidConfig, got %v", errs[0])
		}

		var configErr *InvalidConfigError
		if !errors.As(errs[0], &configErr) {
			t.Fatalf("expected *InvalidConfigError, got %T", errs[0])
		}
		if len(configErr.FieldErrors) != 2 {
			t.Errorf("expected 2 field errors (sif, hpc), got %d", len(configErr.FieldErrors))
		}
	})
}
