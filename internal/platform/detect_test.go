package platform

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phatvucoder/gconda/internal/model"
)

// newTestDetector returns a Detector with all probes stubbed to "nothing
// found"; individual tests override the seams they exercise.
func newTestDetector() *Detector {
	return &Detector{
		log:      zerolog.Nop(),
		getenv:   func(string) string { return "" },
		stat:     func(string) (os.FileInfo, error) { return nil, os.ErrNotExist },
		lookPath: func(string) (string, error) { return "", errors.New("not found") },
		run:      func(context.Context, string, ...string) (string, error) { return "", errors.New("not run") },
	}
}

func TestDetector_Runtime(t *testing.T) {
	t.Run("colab via env marker", func(t *testing.T) {
		d := newTestDetector()
		d.getenv = func(key string) string {
			if key == "COLAB_RELEASE_TAG" {
				return "release-colab-20260815"
			}
			return ""
		}
		assert.Equal(t, model.PlatformColab, d.Runtime())
	})

	t.Run("kaggle via env marker", func(t *testing.T) {
		d := newTestDetector()
		d.getenv = func(key string) string {
			if key == "KAGGLE_KERNEL_RUN_TYPE" {
				return "Interactive"
			}
			return ""
		}
		assert.Equal(t, model.PlatformKaggle, d.Runtime())
	})

	t.Run("kaggle via filesystem marker", func(t *testing.T) {
		d := newTestDetector()
		tmp := t.TempDir()
		d.stat = func(name string) (os.FileInfo, error) {
			if name == kagglePathMarker {
				return os.Stat(tmp)
			}
			return nil, os.ErrNotExist
		}
		assert.Equal(t, model.PlatformKaggle, d.Runtime())
	})

	t.Run("colab wins over kaggle when both markers present", func(t *testing.T) {
		d := newTestDetector()
		d.getenv = func(string) string { return "set" }
		assert.Equal(t, model.PlatformColab, d.Runtime())
	})

	t.Run("generic when no markers", func(t *testing.T) {
		d := newTestDetector()
		assert.Equal(t, model.PlatformGeneric, d.Runtime())
	})
}

func TestDetector_FindPython(t *testing.T) {
	t.Run("prefers python over python3", func(t *testing.T) {
		d := newTestDetector()
		d.lookPath = func(file string) (string, error) {
			return "/usr/bin/" + file, nil
		}
		path, err := d.FindPython()
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/python", path)
	})

	t.Run("falls back to python3", func(t *testing.T) {
		d := newTestDetector()
		d.lookPath = func(file string) (string, error) {
			if file == "python3" {
				return "/usr/bin/python3", nil
			}
			return "", errors.New("not found")
		}
		path, err := d.FindPython()
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/python3", path)
	})

	t.Run("neither present", func(t *testing.T) {
		d := newTestDetector()
		_, err := d.FindPython()
		assert.Error(t, err)
	})
}

func TestDetector_PythonStatus(t *testing.T) {
	t.Run("installed with version", func(t *testing.T) {
		d := newTestDetector()
		d.lookPath = func(file string) (string, error) { return "/usr/bin/python", nil }
		d.run = func(_ context.Context, name string, args ...string) (string, error) {
			assert.Equal(t, "/usr/bin/python", name)
			assert.Equal(t, []string{"--version"}, args)
			return "Python 3.11.4\n", nil
		}

		status := d.PythonStatus(context.Background())
		assert.True(t, status.Installed)
		assert.Equal(t, "Python 3.11.4", status.Version)
		assert.Equal(t, "/usr/bin/python", status.Path)
	})

	t.Run("installed but version query fails", func(t *testing.T) {
		d := newTestDetector()
		d.lookPath = func(file string) (string, error) { return "/usr/bin/python", nil }

		status := d.PythonStatus(context.Background())
		assert.True(t, status.Installed)
		assert.Empty(t, status.Version)
	})

	t.Run("not installed", func(t *testing.T) {
		d := newTestDetector()
		status := d.PythonStatus(context.Background())
		assert.False(t, status.Installed)
	})
}
