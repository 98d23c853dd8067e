// SPDX-License-Identifier: MPL-2.0

package labfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robolab-cli/pkg/labfile"
)

func TestDiscover(t *testing.T) {
	t.Parallel()

	t.Run("explicit path wins", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		explicit := filepath.Join(dir, "custom.cue")
		require.NoError(t, os.WriteFile(explicit, []byte("name: \"lab\"\n"), 0o644))

		got, err := labfile.Discover(explicit, dir)
		require.NoError(t, err)
		assert.Equal(t, explicit, got)
	})

	t.Run("explicit path missing is an error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, err := labfile.Discover(filepath.Join(dir, "nope.cue"), dir)
		require.Error(t, err)
	})

	t.Run("labfile.cue preferred over bare labfile", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		withExt := filepath.Join(dir, "labfile.cue")
		bare := filepath.Join(dir, "labfile")
		require.NoError(t, os.WriteFile(withExt, []byte("a"), 0o644))
		require.NoError(t, os.WriteFile(bare, []byte("b"), 0o644))

		got, err := labfile.Discover("", dir)
		require.NoError(t, err)
		assert.Equal(t, withExt, got)
	})

	t.Run("bare labfile found when no .cue", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		bare := filepath.Join(dir, "labfile")
		require.NoError(t, os.WriteFile(bare, []byte("b"), 0o644))

		got, err := labfile.Discover("", dir)
		require.NoError(t, err)
		assert.Equal(t, bare, got)
	})

	t.Run("nothing found wraps ErrNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := labfile.Discover("", t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.Is(err, labfile.ErrNotFound))
	})
}
