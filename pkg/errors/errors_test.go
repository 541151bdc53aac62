package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrManifestFetch, "release index unreachable")
	assert.Equal(t, ErrManifestFetch, err.Code)
	assert.Equal(t, "[MANIFEST_FETCH] release index unreachable", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := Wrap(inner, ErrManifestFetch, "fetching release index")
	assert.Equal(t, "[MANIFEST_FETCH] fetching release index: connection refused", err.Error())
	assert.True(t, errors.Is(err, inner))

	assert.Nil(t, Wrap(nil, ErrManifestFetch, "no-op"))
}

func TestIsErrorCode(t *testing.T) {
	err := Newf(ErrHashMismatch, "sha1 mismatch for %s", "sodium-0.5.8.jar")
	assert.True(t, IsErrorCode(err, ErrHashMismatch))
	assert.False(t, IsErrorCode(err, ErrDownloadFailed))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrHashMismatch))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsErrorCode(wrapped, ErrHashMismatch))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrDatabase, GetErrorCode(New(ErrDatabase, "locked")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrFileSystem, "permission denied").
		WithDetail("path", "/instances/NAHA-Fabric/mods")
	details := GetErrorDetails(err)
	assert.Equal(t, "/instances/NAHA-Fabric/mods", details["path"])
	assert.Nil(t, GetErrorDetails(fmt.Errorf("plain")))
}

func TestErrorIsMatchesByCode(t *testing.T) {
	a := New(ErrDetection, "unreadable marker")
	b := New(ErrDetection, "different message")
	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, New(ErrDatabase, "x")))
}
