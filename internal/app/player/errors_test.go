package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name             string
		code             int
		timedOut         bool
		permissionDenied bool
		expected         ErrorKind
	}{
		{name: "aborted", code: MediaErrAborted, expected: KindAborted},
		{name: "network", code: MediaErrNetwork, expected: KindNetworkError},
		{name: "decode", code: MediaErrDecode, expected: KindDecodeError},
		{name: "source not supported", code: MediaErrSrcNotSupported, expected: KindFormatUnsupported},
		{name: "timeout wins over code", code: MediaErrNetwork, timedOut: true, expected: KindTimeout},
		{name: "permission denied", permissionDenied: true, expected: KindAutoplayBlocked},
		{name: "unrecognized code maps to unknown", code: 42, expected: KindUnknown},
		{name: "zero code maps to unknown", code: 0, expected: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.code, tt.timedOut, tt.permissionDenied))
		})
	}
}

func TestErrorKind_MessagesAreFixedAndDistinctForAutoplay(t *testing.T) {
	kinds := []ErrorKind{
		KindNoStreamURL, KindAborted, KindNetworkError, KindDecodeError,
		KindFormatUnsupported, KindAutoplayBlocked, KindTimeout, KindUnknown,
	}
	for _, k := range kinds {
		assert.NotEmpty(t, k.Message())
		if k != KindUnknown {
			assert.NotEqual(t, "unknown", k.String())
		}
	}

	// Autoplay blocked instructs a gesture instead of offering a retry.
	assert.Contains(t, KindAutoplayBlocked.Message(), "play")
}

func TestErrorKind_Retryable(t *testing.T) {
	assert.False(t, KindNoStreamURL.Retryable())
	assert.False(t, KindFormatUnsupported.Retryable())
	assert.True(t, KindTimeout.Retryable())
	assert.True(t, KindNetworkError.Retryable())
	assert.True(t, KindAutoplayBlocked.Retryable())
}

func TestError_ImplementsError(t *testing.T) {
	err := &Error{Kind: KindTimeout}
	assert.Equal(t, "playback: timeout", err.Error())
}
