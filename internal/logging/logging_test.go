// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSetVerbose_TogglesDebugLevel(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	if Default().GetLevel() != log.DebugLevel {
		t.Errorf("expected debug level when verbose, got %v", Default().GetLevel())
	}

	SetVerbose(false)
	if Default().GetLevel() != log.InfoLevel {
		t.Errorf("expected info level when not verbose, got %v", Default().GetLevel())
	}
}

func TestDebug_SuppressedUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbose(false)

	SetVerbose(false)
	Debug("hidden message")
	if strings.Contains(buf.String(), "hidden message") {
		t.Error("debug output should be suppressed at info level")
	}

	SetVerbose(true)
	Debug("now visible", "key", "value")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("debug output should appear at debug level, got: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "key") {
		t.Errorf("key-value pairs should be rendered, got: %q", buf.String())
	}
}

func TestWithPrefix_LabelsSubsystem(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	WithPrefix("pack").Info("archive exported")
	out := buf.String()
	if !strings.Contains(out, "pack") {
		t.Errorf("expected subsystem prefix in output, got: %q", out)
	}
	if !strings.Contains(out, "archive exported") {
		t.Errorf("expected message in output, got: %q", out)
	}
}
