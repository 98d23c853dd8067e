// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

type (
	// Receipt records what a successful pipeline run produced.
	Receipt struct {
		BuildID   string            `toml:"build_id"`
		CreatedAt time.Time         `toml:"created_at"`
		Container string            `toml:"container"`
		Image     string            `toml:"image"`
		Strategy  string            `toml:"strategy,omitempty"`
		Stages    []ReceiptStage    `toml:"stages"`
		Artifacts []ReceiptArtifact `toml:"artifacts"`
	}

	// ReceiptStage is one pipeline stage outcome.
	ReceiptStage struct {
		Name    string `toml:"name"`
		Outcome string `toml:"outcome"`
		Detail  string `toml:"detail,omitempty"`
	}

	// ReceiptArtifact is one produced file, identified relative to the
	// receipt's own directory.
	ReceiptArtifact struct {
		Path      string    `toml:"path"`
		SizeBytes int64     `toml:"size_bytes"`
		ModTime   time.Time `toml:"mod_time"`
	}
)

// now is swapped out by tests for deterministic receipts.
var now = time.Now

// BuildReceipt assembles the receipt for a finished run.
func BuildReceipt(opts Options, res *Result) Receipt {
	r := Receipt{
		BuildID:   uuid.NewString(),
		CreatedAt: now().UTC(),
		Container: string(opts.Container),
		Image:     string(opts.Image.WithDefaultTag()),
		Strategy:  string(res.Strategy),
	}

	for _, s := range res.Stages {
		r.Stages = append(r.Stages, ReceiptStage{Name: s.Name, Outcome: s.Outcome, Detail: s.Detail})
	}

	for _, path := range []string{
		res.ArchivePath, res.DefPath, res.SifPath,
		res.SandboxPath, res.ScriptPath, res.ReadmePath,
	} {
		if path == "" {
			continue
		}
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		r.Artifacts = append(r.Artifacts, ReceiptArtifact{
			Path:      filepath.Base(path),
			SizeBytes: fi.Size(),
			ModTime:   fi.ModTime().UTC(),
		})
	}

	return r
}

// WriteReceipt assembles the receipt and writes it as TOML.
func WriteReceipt(path string, opts Options, res *Result) error {
	data, err := toml.Marshal(BuildReceipt(opts, res))
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	return nil
}
