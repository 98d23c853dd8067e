// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// DefinitionData parameterizes the Apptainer definition template.
type DefinitionData struct {
	// Container is the source container name, recorded in %labels.
	Container string
	// Image is the tagged image reference the archive was exported from.
	Image string
	// ArchiveName is the OCI archive filename the build bootstraps from,
	// relative to the definition file.
	ArchiveName string
}

// definitionTemplate is the emitted <image>.def. The build bootstraps from
// the neighboring OCI archive; %post only verifies the payload is intact.
const definitionTemplate = `Bootstrap: oci-archive
From: {{ .ArchiveName }}

%labels
    org.robolab.source-container {{ .Container }}
    org.robolab.source-image {{ .Image }}
    org.robolab.generator robolab

%post
    echo "Verifying image payload"
    . /etc/os-release && echo "Base: $PRETTY_NAME"
    command -v python3 >/dev/null 2>&1 && python3 --version || echo "python3 not present"

%environment
    export LC_ALL=C.UTF-8
    export ROBOLAB_SOURCE_CONTAINER={{ .Container }}
    export ROBOLAB_SOURCE_IMAGE={{ .Image }}

%runscript
    exec /bin/bash "$@"
`

var definitionTmpl = template.Must(template.New("definition").Parse(definitionTemplate))

// RenderDefinition renders the Apptainer definition for the given inputs.
func RenderDefinition(data DefinitionData) (string, error) {
	var buf bytes.Buffer
	if err := definitionTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render definition: %w", err)
	}
	return buf.String(), nil
}

// WriteDefinition renders the definition and writes it to path.
func WriteDefinition(path string, data DefinitionData) error {
	content, err := RenderDefinition(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write definition: %w", err)
	}
	return nil
}
