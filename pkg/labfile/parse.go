// SPDX-License-Identifier: MPL-2.0

package labfile

import (
	"robolab-cli/pkg/cueutil"
)

// parseWithSchema runs the shared 3-step CUE flow against the embedded
// labfile schema.
func parseWithSchema(data []byte, path string) (*Labfile, error) {
	result, err := cueutil.ParseAndDecode[Labfile](
		labfileSchema,
		data,
		"#Labfile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}
