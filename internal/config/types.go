// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// SifPreferAuto probes for apptainer first, then singularity.
	SifPreferAuto SifPreference = "auto"
	// SifPreferApptainer forces the apptainer binary.
	SifPreferApptainer SifPreference = "apptainer"
	// SifPreferSingularity forces the singularity binary.
	SifPreferSingularity SifPreference = "singularity"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidSifPreference is returned when a SifPreference value is not recognized.
	ErrInvalidSifPreference = errors.New("invalid sif preference")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidBinaryFilePath is returned when a BinaryFilePath value is whitespace-only.
	ErrInvalidBinaryFilePath = errors.New("invalid binary file path")
	// ErrInvalidOutputDirPath is returned when an OutputDirPath value is whitespace-only.
	ErrInvalidOutputDirPath = errors.New("invalid output dir path")
	// ErrInvalidWalltime is the sentinel error wrapped by InvalidWalltimeError.
	ErrInvalidWalltime = errors.New("invalid walltime")
	// ErrInvalidMemorySpec is the sentinel error wrapped by InvalidMemorySpecError.
	ErrInvalidMemorySpec = errors.New("invalid memory spec")
	// ErrInvalidContainerConfig is the sentinel error wrapped by InvalidContainerConfigError.
	ErrInvalidContainerConfig = errors.New("invalid container config")
	// ErrInvalidSifConfig is the sentinel error wrapped by InvalidSifConfigError.
	ErrInvalidSifConfig = errors.New("invalid sif config")
	// ErrInvalidPackConfig is the sentinel error wrapped by InvalidPackConfigError.
	ErrInvalidPackConfig = errors.New("invalid pack config")
	// ErrInvalidHPCConfig is the sentinel error wrapped by InvalidHPCConfigError.
	ErrInvalidHPCConfig = errors.New("invalid hpc config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

var (
	// walltimePattern accepts the Slurm time forms: minutes, MM:SS, HH:MM:SS,
	// D-HH, D-HH:MM and D-HH:MM:SS.
	walltimePattern = regexp.MustCompile(`^(\d+|\d+:\d{2}|\d+:\d{2}:\d{2}|\d+-\d{1,2}(:\d{2}){0,2})$`)

	// memorySpecPattern accepts the Slurm memory forms: a number with an
	// optional K/M/G/T suffix.
	memorySpecPattern = regexp.MustCompile(`^\d+[KMGTkmgt]?$`)
)

type (
	// SifPreference selects which SIF builder binary to use.
	SifPreference string

	// InvalidSifPreferenceError is returned when a SifPreference value is not recognized.
	// It wraps ErrInvalidSifPreference for errors.Is() compatibility.
	InvalidSifPreferenceError struct {
		Value SifPreference
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// BinaryFilePath represents a filesystem path to a binary executable.
	// A valid path must be non-empty and not whitespace-only.
	// The zero value ("") is valid and means "use the default binary".
	BinaryFilePath string

	// InvalidBinaryFilePathError is returned when a BinaryFilePath value is
	// non-empty but whitespace-only.
	InvalidBinaryFilePathError struct {
		Value BinaryFilePath
	}

	// OutputDirPath represents a filesystem path to the artifact output directory.
	// The zero value ("") is valid and means "use the current directory".
	// Non-zero values must not be whitespace-only.
	OutputDirPath string

	// InvalidOutputDirPathError is returned when an OutputDirPath value is
	// non-empty but whitespace-only.
	InvalidOutputDirPathError struct {
		Value OutputDirPath
	}

	// Walltime represents a Slurm walltime limit such as "02:00:00" or "1-12:00:00".
	// The zero value ("") is valid and omits the #SBATCH --time directive.
	Walltime string

	// InvalidWalltimeError is returned when a Walltime value does not match
	// any of the Slurm time forms. It wraps ErrInvalidWalltime for errors.Is().
	InvalidWalltimeError struct {
		Value Walltime
	}

	// MemorySpec represents a Slurm memory request such as "8G" or "16384M".
	// The zero value ("") is valid and omits the #SBATCH --mem directive.
	MemorySpec string

	// InvalidMemorySpecError is returned when a MemorySpec value does not match
	// the Slurm memory form. It wraps ErrInvalidMemorySpec for errors.Is().
	InvalidMemorySpecError struct {
		Value MemorySpec
	}

	// InvalidContainerConfigError is returned when a ContainerConfig has invalid fields.
	// It wraps ErrInvalidContainerConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidContainerConfigError struct {
		FieldErrors []error
	}

	// InvalidSifConfigError is returned when a SifConfig has invalid fields.
	// It wraps ErrInvalidSifConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidSifConfigError struct {
		FieldErrors []error
	}

	// InvalidPackConfigError is returned when a PackConfig has invalid fields.
	// It wraps ErrInvalidPackConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidPackConfigError struct {
		FieldErrors []error
	}

	// InvalidHPCConfigError is returned when an HPCConfig has invalid fields.
	// It wraps ErrInvalidHPCConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidHPCConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Container configures the container engine used to inspect, commit
		// and export containers.
		Container ContainerConfig `json:"container" mapstructure:"container"`
		// Sif configures the SIF builder selection.
		Sif SifConfig `json:"sif" mapstructure:"sif"`
		// Pack configures packaging output.
		Pack PackConfig `json:"pack" mapstructure:"pack"`
		// HPC configures defaults for generated Slurm submission scripts.
		HPC HPCConfig `json:"hpc" mapstructure:"hpc"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ContainerConfig configures the container engine.
	ContainerConfig struct {
		// Binary overrides the container engine CLI ("docker", "podman", or
		// an absolute path). Empty means the default docker binary.
		Binary BinaryFilePath `json:"binary,omitempty" mapstructure:"binary"`
	}

	// SifConfig configures SIF builder selection.
	SifConfig struct {
		// Prefer selects the builder binary: auto, apptainer or singularity.
		Prefer SifPreference `json:"prefer,omitempty" mapstructure:"prefer"`
	}

	// PackConfig configures packaging output.
	PackConfig struct {
		// OutputDir is where definition files, archives and images land.
		// Empty means the current directory.
		OutputDir OutputDirPath `json:"output_dir,omitempty" mapstructure:"output_dir"`
	}

	// HPCConfig holds defaults for generated Slurm submission scripts.
	HPCConfig struct {
		// Partition is the Slurm partition. Empty omits the directive.
		Partition string `json:"partition,omitempty" mapstructure:"partition"`
		// Time is the walltime limit. Empty omits the directive.
		Time Walltime `json:"time,omitempty" mapstructure:"time"`
		// Mem is the memory request. Empty omits the directive.
		Mem MemorySpec `json:"mem,omitempty" mapstructure:"mem"`
		// Module is the environment module loaded before running the image.
		// Empty omits the module load line.
		Module string `json:"module,omitempty" mapstructure:"module"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme,omitempty" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose,omitempty" mapstructure:"verbose"`
	}
)

// IsValid returns whether the ContainerConfig has valid fields.
// It delegates to Binary.IsValid().
func (c ContainerConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Binary.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidContainerConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidContainerConfigError.
func (e *InvalidContainerConfigError) Error() string {
	return fmt.Sprintf("invalid container config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidContainerConfig for errors.Is() compatibility.
func (e *InvalidContainerConfigError) Unwrap() error { return ErrInvalidContainerConfig }

// IsValid returns whether the SifConfig has valid fields.
// It delegates to Prefer.IsValid().
func (c SifConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Prefer.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidSifConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSifConfigError.
func (e *InvalidSifConfigError) Error() string {
	return fmt.Sprintf("invalid sif config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidSifConfig for errors.Is() compatibility.
func (e *InvalidSifConfigError) Unwrap() error { return ErrInvalidSifConfig }

// IsValid returns whether the PackConfig has valid fields.
// It delegates to OutputDir.IsValid().
func (c PackConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.OutputDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPackConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPackConfigError.
func (e *InvalidPackConfigError) Error() string {
	return fmt.Sprintf("invalid pack config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidPackConfig for errors.Is() compatibility.
func (e *InvalidPackConfigError) Unwrap() error { return ErrInvalidPackConfig }

// IsValid returns whether the HPCConfig has valid fields.
// It delegates to Time.IsValid() and Mem.IsValid(); Partition and Module
// are free-form strings and need no validation.
func (c HPCConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Time.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Mem.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidHPCConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHPCConfigError.
func (e *InvalidHPCConfigError) Error() string {
	return fmt.Sprintf("invalid hpc config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidHPCConfig for errors.Is() compatibility.
func (e *InvalidHPCConfigError) Unwrap() error { return ErrInvalidHPCConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to Container.IsValid(), Sif.IsValid(), Pack.IsValid(),
// HPC.IsValid() and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Container.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Sif.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Pack.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.HPC.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the BinaryFilePath.
func (p BinaryFilePath) String() string { return string(p) }

// IsValid returns whether the BinaryFilePath is valid.
// The zero value ("") is valid (means "use the default binary").
// Non-zero values must not be whitespace-only.
func (p BinaryFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBinaryFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBinaryFilePathError.
func (e *InvalidBinaryFilePathError) Error() string {
	return fmt.Sprintf("invalid binary file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidBinaryFilePath for errors.Is() compatibility.
func (e *InvalidBinaryFilePathError) Unwrap() error { return ErrInvalidBinaryFilePath }

// String returns the string representation of the OutputDirPath.
func (p OutputDirPath) String() string { return string(p) }

// IsValid returns whether the OutputDirPath is valid.
// The zero value ("") is valid (means "use the current directory").
// Non-zero values must not be whitespace-only.
func (p OutputDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidOutputDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidOutputDirPathError.
func (e *InvalidOutputDirPathError) Error() string {
	return fmt.Sprintf("invalid output dir path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidOutputDirPath for errors.Is() compatibility.
func (e *InvalidOutputDirPathError) Unwrap() error { return ErrInvalidOutputDirPath }

// String returns the string representation of the Walltime.
func (w Walltime) String() string { return string(w) }

// IsValid returns whether the Walltime is valid.
// The zero value ("") is valid (omits the #SBATCH --time directive).
// Non-zero values must match one of the Slurm time forms.
func (w Walltime) IsValid() (bool, []error) {
	if w == "" {
		return true, nil
	}
	if !walltimePattern.MatchString(string(w)) {
		return false, []error{&InvalidWalltimeError{Value: w}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWalltimeError.
func (e *InvalidWalltimeError) Error() string {
	return fmt.Sprintf("invalid walltime %q (expected forms: minutes, MM:SS, HH:MM:SS, D-HH[:MM[:SS]])", e.Value)
}

// Unwrap returns ErrInvalidWalltime for errors.Is() compatibility.
func (e *InvalidWalltimeError) Unwrap() error { return ErrInvalidWalltime }

// String returns the string representation of the MemorySpec.
func (m MemorySpec) String() string { return string(m) }

// IsValid returns whether the MemorySpec is valid.
// The zero value ("") is valid (omits the #SBATCH --mem directive).
// Non-zero values must be a number with an optional K/M/G/T suffix.
func (m MemorySpec) IsValid() (bool, []error) {
	if m == "" {
		return true, nil
	}
	if !memorySpecPattern.MatchString(string(m)) {
		return false, []error{&InvalidMemorySpecError{Value: m}}
	}
	return true, nil
}

// Error implements the error interface for InvalidMemorySpecError.
func (e *InvalidMemorySpecError) Error() string {
	return fmt.Sprintf("invalid memory spec %q (expected a number with an optional K/M/G/T suffix)", e.Value)
}

// Unwrap returns ErrInvalidMemorySpec for errors.Is() compatibility.
func (e *InvalidMemorySpecError) Unwrap() error { return ErrInvalidMemorySpec }

// Error implements the error interface for InvalidSifPreferenceError.
func (e *InvalidSifPreferenceError) Error() string {
	return fmt.Sprintf("invalid sif preference %q (valid: auto, apptainer, singularity)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidSifPreferenceError) Unwrap() error {
	return ErrInvalidSifPreference
}

// String returns the string representation of the SifPreference.
func (p SifPreference) String() string { return string(p) }

// IsValid returns whether the SifPreference is one of the defined preferences,
// and a list of validation errors if it is not.
func (p SifPreference) IsValid() (bool, []error) {
	switch p {
	case SifPreferAuto, SifPreferApptainer, SifPreferSingularity:
		return true, nil
	default:
		return false, []error{&InvalidSifPreferenceError{Value: p}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Container: ContainerConfig{
			Binary: "", // Will use the default docker binary if empty
		},
		Sif: SifConfig{
			Prefer: SifPreferAuto,
		},
		Pack: PackConfig{
			OutputDir: "", // Will use the current directory if empty
		},
		HPC: HPCConfig{
			Partition: "",
			Time:      "02:00:00",
			Mem:       "8G",
			Module:    "apptainer",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
