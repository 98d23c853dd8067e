// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"robolab-cli/internal/issue"
	"robolab-cli/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Container.Binary != "" {
		t.Errorf("expected default container binary to be empty, got %q", cfg.Container.Binary)
	}

	if cfg.Sif.Prefer != SifPreferAuto {
		t.Errorf("expected default sif preference to be auto, got %s", cfg.Sif.Prefer)
	}

	if cfg.Pack.OutputDir != "" {
		t.Errorf("expected default output dir to be empty, got %q", cfg.Pack.OutputDir)
	}

	if cfg.HPC.Partition != "" {
		t.Errorf("expected default partition to be empty, got %q", cfg.HPC.Partition)
	}

	if cfg.HPC.Time != "02:00:00" {
		t.Errorf("expected default walltime to be 02:00:00, got %s", cfg.HPC.Time)
	}

	if cfg.HPC.Mem != "8G" {
		t.Errorf("expected default memory to be 8G, got %s", cfg.HPC.Mem)
	}

	if cfg.HPC.Module != "apptainer" {
		t.Errorf("expected default module to be apptainer, got %s", cfg.HPC.Module)
	}

	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}

	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG behavior is Linux-specific")
	}

	// Test with XDG_CONFIG_HOME set
	testXDGPath := "/tmp/test-xdg-config"
	restoreXDG := testutil.MustSetenv(t, "XDG_CONFIG_HOME", testXDGPath)
	defer restoreXDG()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	expected := filepath.Join(testXDGPath, AppName)
	if dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}

	// Test with XDG_CONFIG_HOME unset: falls back to ~/.config
	testutil.MustUnsetenv(t, "XDG_CONFIG_HOME")
	tmpHome := t.TempDir()
	t.Cleanup(testutil.SetHomeDir(t, tmpHome))

	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	expected = filepath.Join(tmpHome, ".config", AppName)
	if dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}
}

func TestConfigDir_Override(t *testing.T) {
	defer Reset()

	override := filepath.Join(t.TempDir(), "custom-config")
	SetConfigDirOverride(override)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != override {
		t.Errorf("ConfigDir() = %s, want %s", dir, override)
	}
}

func TestReset(t *testing.T) {
	// Prime the cache with a fake loaded config
	globalConfig = DefaultConfig()
	globalPath = "/some/path"
	configDirOverride = "/some/dir"
	configFilePathOverride = "/some/file.cue"

	Reset()

	if globalConfig != nil {
		t.Error("expected globalConfig to be nil after Reset()")
	}
	if globalPath != "" {
		t.Error("expected globalPath to be empty after Reset()")
	}
	if configDirOverride != "" {
		t.Error("expected configDirOverride to be empty after Reset()")
	}
	if configFilePathOverride != "" {
		t.Error("expected configFilePathOverride to be empty after Reset()")
	}
}

func TestGet_ReturnsDefaultOnNoConfig(t *testing.T) {
	Reset()
	defer Reset()

	// Point at an empty directory and cwd so no real config is picked up
	tmpDir := t.TempDir()
	SetConfigDirOverride(filepath.Join(tmpDir, AppName))
	restoreWd := testutil.MustChdir(t, tmpDir)
	defer restoreWd()

	cfg := Get()

	if cfg == nil {
		t.Fatal("Get() returned nil")
	}

	if cfg.Sif.Prefer != SifPreferAuto {
		t.Errorf("expected default sif preference, got %s", cfg.Sif.Prefer)
	}

	if err := LastLoadError(); err != nil {
		t.Errorf("expected no load error, got %v", err)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	defer Reset()

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)

	// Use direct override instead of env vars (more reliable across platforms)
	SetConfigDirOverride(configDir)

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Errorf("EnsureConfigDir() did not create directory %s", configDir)
	}
}

func TestLoadAndSave(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)
	SetConfigDirOverride(configDir)

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	// Create a custom config
	cfg := &Config{
		Container: ContainerConfig{
			Binary: "podman",
		},
		Sif: SifConfig{
			Prefer: SifPreferSingularity,
		},
		Pack: PackConfig{
			OutputDir: "/data/images",
		},
		HPC: HPCConfig{
			Partition: "gpu",
			Time:      "08:00:00",
			Mem:       "32G",
			Module:    "apptainer/1.3",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeDark,
			Verbose:     true,
		},
	}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	// Invalidate the cache so Load re-reads from disk
	SetConfigDirOverride(configDir)

	loaded, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if loaded.Container.Binary != "podman" {
		t.Errorf("Container.Binary = %q, want podman", loaded.Container.Binary)
	}
	if loaded.Sif.Prefer != SifPreferSingularity {
		t.Errorf("Sif.Prefer = %s, want singularity", loaded.Sif.Prefer)
	}
	if loaded.Pack.OutputDir != "/data/images" {
		t.Errorf("Pack.OutputDir = %q, want /data/images", loaded.Pack.OutputDir)
	}
	if loaded.HPC.Partition != "gpu" {
		t.Errorf("HPC.Partition = %q, want gpu", loaded.HPC.Partition)
	}
	if loaded.HPC.Time != "08:00:00" {
		t.Errorf("HPC.Time = %s, want 08:00:00", loaded.HPC.Time)
	}
	if loaded.HPC.Mem != "32G" {
		t.Errorf("HPC.Mem = %s, want 32G", loaded.HPC.Mem)
	}
	if loaded.HPC.Module != "apptainer/1.3" {
		t.Errorf("HPC.Module = %q, want apptainer/1.3", loaded.HPC.Module)
	}
	if loaded.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("UI.ColorScheme = %s, want dark", loaded.UI.ColorScheme)
	}
	if !loaded.UI.Verbose {
		t.Error("UI.Verbose should be true")
	}

	// ConfigFilePath reports where the config came from
	path, err := ConfigFilePath()
	if err != nil {
		t.Fatalf("ConfigFilePath() returned error: %v", err)
	}
	expected := filepath.Join(configDir, ConfigFileName+"."+ConfigFileExt)
	if path != expected {
		t.Errorf("ConfigFilePath() = %s, want %s", path, expected)
	}
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	SetConfigDirOverride(filepath.Join(tmpDir, AppName))
	restoreWd := testutil.MustChdir(t, tmpDir)
	defer restoreWd()

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.HPC.Time != "02:00:00" {
		t.Errorf("expected default walltime, got %s", cfg.HPC.Time)
	}

	path, err := ConfigFilePath()
	if err != nil {
		t.Fatalf("ConfigFilePath() returned error: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty config file path for defaults, got %q", path)
	}
}

func TestLoad_ReturnsCachedConfig(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	SetConfigDirOverride(filepath.Join(tmpDir, AppName))
	restoreWd := testutil.MustChdir(t, tmpDir)
	defer restoreWd()

	first, err := Load(context.Background())
	if err != nil {
		t.Fatalf("first Load() returned error: %v", err)
	}

	second, err := Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() returned error: %v", err)
	}

	if first != second {
		t.Error("Load() should return the cached *Config on subsequent calls")
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)
	SetConfigDirOverride(configDir)

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() returned error: %v", err)
	}

	cfgPath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("expected config file at %s: %v", cfgPath, err)
	}

	// Second call is a no-op
	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("second CreateDefaultConfig() returned error: %v", err)
	}

	// The generated file must load cleanly and produce defaults
	SetConfigDirOverride(configDir)
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() of generated default config returned error: %v", err)
	}
	if cfg.Sif.Prefer != SifPreferAuto {
		t.Errorf("Sif.Prefer = %s, want auto", cfg.Sif.Prefer)
	}
	if cfg.HPC.Module != "apptainer" {
		t.Errorf("HPC.Module = %q, want apptainer", cfg.HPC.Module)
	}
}

func TestConstants(t *testing.T) {
	if AppName != "robolab" {
		t.Errorf("AppName = %q, want robolab", AppName)
	}
	if ConfigFileName != "config" {
		t.Errorf("ConfigFileName = %q, want config", ConfigFileName)
	}
	if ConfigFileExt != "cue" {
		t.Errorf("ConfigFileExt = %q, want cue", ConfigFileExt)
	}
}

func TestLoad_CustomPath_Valid(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	customPath := filepath.Join(tmpDir, "my-config.cue")
	testutil.MustWriteFile(t, customPath, []byte("sif: prefer: \"singularity\"\n"), 0o644)

	SetConfigFilePathOverride(customPath)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Sif.Prefer != SifPreferSingularity {
		t.Errorf("Sif.Prefer = %s, want singularity", cfg.Sif.Prefer)
	}

	// Untouched keys keep their defaults
	if cfg.HPC.Mem != "8G" {
		t.Errorf("HPC.Mem = %s, want default 8G", cfg.HPC.Mem)
	}

	path, err := ConfigFilePath()
	if err != nil {
		t.Fatalf("ConfigFilePath() returned error: %v", err)
	}
	if path != customPath {
		t.Errorf("ConfigFilePath() = %s, want %s", path, customPath)
	}
}

func TestLoad_CustomPath_NotFound_ReturnsError(t *testing.T) {
	Reset()
	defer Reset()

	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "does-not-exist.cue"))

	_, err := Load(context.Background())
	if err == nil {
		t.Fatal("Load() should fail for a missing custom config file")
	}

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("expected *issue.ActionableError, got %T", err)
	}
	if !actionable.HasSuggestions() {
		t.Error("expected suggestions on the missing-config error")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("error should mention the missing file, got: %v", err)
	}

	if LastLoadError() == nil {
		t.Error("LastLoadError() should retain the failure")
	}
}

func TestLoad_CustomPath_InvalidCUE_ReturnsError(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	badPath := filepath.Join(tmpDir, "broken.cue")
	testutil.MustWriteFile(t, badPath, []byte("sif: prefer: \"unclosed\n"), 0o644)

	SetConfigFilePathOverride(badPath)

	_, err := Load(context.Background())
	if err == nil {
		t.Fatal("Load() should fail for invalid CUE syntax")
	}

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("expected *issue.ActionableError, got %T", err)
	}
}

func TestLoad_SchemaViolation_ReturnsError(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	badPath := filepath.Join(tmpDir, "bad-enum.cue")
	testutil.MustWriteFile(t, badPath, []byte("sif: prefer: \"docker\"\n"), 0o644)

	SetConfigFilePathOverride(badPath)

	_, err := Load(context.Background())
	if err == nil {
		t.Fatal("Load() should reject sif.prefer values outside the schema enum")
	}
}

func TestLoad_InvalidWalltime_ReturnsError(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	badPath := filepath.Join(tmpDir, "bad-time.cue")
	testutil.MustWriteFile(t, badPath, []byte("hpc: time: \"whenever\"\n"), 0o644)

	SetConfigFilePathOverride(badPath)

	_, err := Load(context.Background())
	if err == nil {
		t.Fatal("Load() should reject walltimes that are not in Slurm form")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
	}
}

func TestGet_FallsBackToDefaultsOnLoadError(t *testing.T) {
	Reset()
	defer Reset()

	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "missing.cue"))

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Sif.Prefer != SifPreferAuto {
		t.Errorf("expected defaults on load failure, got sif.prefer=%s", cfg.Sif.Prefer)
	}
	if LastLoadError() == nil {
		t.Error("LastLoadError() should report the load failure")
	}
}

func TestLoad_LocalConfigFallback(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	SetConfigDirOverride(filepath.Join(tmpDir, AppName)) // does not exist
	restoreWd := testutil.MustChdir(t, tmpDir)
	defer restoreWd()

	testutil.MustWriteFile(t, filepath.Join(tmpDir, "config.cue"), []byte("ui: verbose: true\n"), 0o644)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if !cfg.UI.Verbose {
		t.Error("expected verbose=true from local config.cue")
	}

	path, err := ConfigFilePath()
	if err != nil {
		t.Fatalf("ConfigFilePath() returned error: %v", err)
	}
	if path != "config.cue" {
		t.Errorf("ConfigFilePath() = %q, want config.cue", path)
	}
}

func TestGenerateCUE_OmitsEmptyFields(t *testing.T) {
	out := GenerateCUE(DefaultConfig())

	if strings.Contains(out, "container:") {
		t.Error("defaults should omit the container block (empty binary)")
	}
	if strings.Contains(out, "pack:") {
		t.Error("defaults should omit the pack block (empty output dir)")
	}
	if strings.Contains(out, "partition:") {
		t.Error("defaults should omit the empty partition field")
	}
	for _, want := range []string{
		"sif: {",
		"prefer: \"auto\"",
		"time: \"02:00:00\"",
		"mem: \"8G\"",
		"module: \"apptainer\"",
		"color_scheme: \"auto\"",
		"verbose: false",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateCUE() missing %q\ngot:\n%s", want, out)
		}
	}
}

func TestGenerateCUE_IncludesConfiguredFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Container.Binary = "podman"
	cfg.Pack.OutputDir = "/data/images"
	cfg.HPC.Partition = "gpu"

	out := GenerateCUE(cfg)

	for _, want := range []string{
		"binary: \"podman\"",
		"output_dir: \"/data/images\"",
		"partition: \"gpu\"",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateCUE() missing %q\ngot:\n%s", want, out)
		}
	}
}
