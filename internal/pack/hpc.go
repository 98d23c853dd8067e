// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"mvdan.cc/sh/v3/syntax"

	"robolab-cli/internal/config"
)

// ScriptData parameterizes the submission script and README templates.
type ScriptData struct {
	// Base is the artifact base name (<base>.tar, <base>.def, <base>.sif).
	Base string
	// Container is the source container name.
	Container string
	// Image is the tagged image reference.
	Image string
	// Builder is the builder binary the script calls (apptainer or
	// singularity).
	Builder string
	// HPC supplies the #SBATCH directives and module name.
	HPC config.HPCConfig
}

// submissionTemplate builds the SIF on a cluster node, walking the same
// fallback ladder as the local build: each strategy once, success judged by
// the image existing (and being non-empty) on disk.
const submissionTemplate = `#!/bin/bash
#SBATCH --job-name=build_{{ .Base }}
{{- if .HPC.Partition }}
#SBATCH --partition={{ .HPC.Partition }}
{{- end }}
{{- if .HPC.Time }}
#SBATCH --time={{ .HPC.Time }}
{{- end }}
{{- if .HPC.Mem }}
#SBATCH --mem={{ .HPC.Mem }}
{{- end }}
#SBATCH --output=build_{{ .Base }}.%j.log

set -euo pipefail
{{ if .HPC.Module }}
module load {{ .HPC.Module }}
{{ end }}
cd "$(dirname "$0")"

def="{{ .Base }}.def"
sif="{{ .Base }}.sif"

rm -f "$sif"

for flags in "" "--fix-perms" "--fakeroot"; do
    echo "Attempting {{ .Builder }} build $flags"
    if {{ .Builder }} build $flags "$sif" "$def" && [ -s "$sif" ]; then
        echo "Build succeeded with strategy: ${flags:-standard}"
        exit 0
    fi
    rm -f "$sif"
done

echo "All build strategies failed" >&2
exit 1
`

// readmeTemplate documents the artifact directory for whoever copies it to
// the cluster.
const readmeTemplate = `# {{ .Base }} image artifacts

Generated by robolab from container ` + "`{{ .Container }}`" + ` (image ` + "`{{ .Image }}`" + `).

## Files

- ` + "`{{ .Base }}.tar`" + `: OCI archive exported from the container engine.
- ` + "`{{ .Base }}.def`" + `: Apptainer definition bootstrapping from the archive.
{{- if .HasSif }}
- ` + "`{{ .Base }}.sif`" + `: built SIF image (strategy: {{ .Strategy }}).
{{- end }}
{{- if .HasSandbox }}
- ` + "`{{ .Base }}_sandbox/`" + `: writable sandbox tree expanded from the SIF.
{{- end }}
- ` + "`build_{{ .Base }}.sbatch`" + `: SLURM script that builds the SIF on a cluster node.
- ` + "`{{ .Base }}.receipt.toml`" + `: build receipt.

## Building on the cluster

Copy this directory to the cluster, then:

    sbatch build_{{ .Base }}.sbatch
{{ if .HPC.Module }}
The script loads the ` + "`{{ .HPC.Module }}`" + ` module and walks the build ladder
({{ .Builder }} build, then --fix-perms, then --fakeroot) until an image
appears on disk.
{{- else }}
The script walks the build ladder ({{ .Builder }} build, then --fix-perms,
then --fakeroot) until an image appears on disk.
{{- end }}

## Running the image

    {{ .Builder }} run {{ .Base }}.sif
    {{ .Builder }} shell {{ .Base }}.sif
    {{ .Builder }} exec {{ .Base }}.sif <command>
`

var (
	submissionTmpl = template.Must(template.New("submission").Parse(submissionTemplate))
	readmeTmpl     = template.Must(template.New("readme").Parse(readmeTemplate))
)

// readmeData extends ScriptData with what the run actually produced.
type readmeData struct {
	ScriptData
	HasSif     bool
	HasSandbox bool
	Strategy   string
}

// RenderSubmissionScript renders the SLURM submission script.
func RenderSubmissionScript(data ScriptData) (string, error) {
	var buf bytes.Buffer
	if err := submissionTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render submission script: %w", err)
	}
	return buf.String(), nil
}

// WriteSubmissionScript renders the script, syntax-checks the generated
// shell, and writes it executable. A template bug surfaces here, not on
// the cluster.
func WriteSubmissionScript(path string, data ScriptData) error {
	content, err := RenderSubmissionScript(data)
	if err != nil {
		return err
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(content), filepath.Base(path)); err != nil {
		return fmt.Errorf("generated script has a syntax error: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return fmt.Errorf("write submission script: %w", err)
	}
	return nil
}

// RenderReadme renders the artifact directory README.
func RenderReadme(data ScriptData, res *Result) (string, error) {
	rd := readmeData{
		ScriptData: data,
		HasSif:     res.SifPath != "",
		HasSandbox: res.SandboxPath != "",
		Strategy:   string(res.Strategy),
	}
	var buf bytes.Buffer
	if err := readmeTmpl.Execute(&buf, rd); err != nil {
		return "", fmt.Errorf("render README: %w", err)
	}
	return buf.String(), nil
}

// WriteReadme renders the README and writes it to path.
func WriteReadme(path string, data ScriptData, res *Result) error {
	content, err := RenderReadme(data, res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write README: %w", err)
	}
	return nil
}
