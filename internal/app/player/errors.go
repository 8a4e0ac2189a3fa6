package player

// ErrorKind classifies a playback failure. The mapping from native
// failure signals is fixed and total: every input maps to exactly one
// kind, unrecognized inputs map to KindUnknown.
type ErrorKind int

const (
	KindUnknown           ErrorKind = iota // Unrecognized failure
	KindNoStreamURL                        // Station has neither resolved nor nominal URL
	KindAborted                            // Load aborted before completion
	KindNetworkError                       // Transport failed while fetching the stream
	KindDecodeError                        // Stream data could not be decoded
	KindFormatUnsupported                  // Stream format not playable on this engine
	KindAutoplayBlocked                    // Platform refused non-gesture playback
	KindTimeout                            // Load exceeded the session's load timeout
)

// Media error codes as reported by audio-element style backends.
const (
	MediaErrAborted         = 1
	MediaErrNetwork         = 2
	MediaErrDecode          = 3
	MediaErrSrcNotSupported = 4
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNoStreamURL:
		return "no_stream_url"
	case KindAborted:
		return "aborted"
	case KindNetworkError:
		return "network_error"
	case KindDecodeError:
		return "decode_error"
	case KindFormatUnsupported:
		return "format_unsupported"
	case KindAutoplayBlocked:
		return "autoplay_blocked"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Message returns the fixed user-facing message for the error kind.
// KindAutoplayBlocked instructs a manual gesture instead of a retry.
func (k ErrorKind) Message() string {
	switch k {
	case KindNoStreamURL:
		return "This station has no stream URL."
	case KindAborted:
		return "Playback was interrupted."
	case KindNetworkError:
		return "Could not reach the stream. Check your connection and retry."
	case KindDecodeError:
		return "The stream could not be decoded."
	case KindFormatUnsupported:
		return "This stream format is not supported."
	case KindAutoplayBlocked:
		return "Playback was blocked. Press play to start."
	case KindTimeout:
		return "The stream took too long to load. Retry?"
	default:
		return "Playback failed for an unknown reason."
	}
}

// Retryable reports whether retrying the same load is expected to help.
// Retry is still offered to the user for non-retryable kinds, since
// futility cannot be proven, but no special recovery is attempted.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindNoStreamURL, KindFormatUnsupported:
		return false
	default:
		return true
	}
}

// Error is a classified playback failure carried by the session and
// returned by engines from Play.
type Error struct {
	Kind ErrorKind
}

func (e *Error) Error() string {
	return "playback: " + e.Kind.String()
}

// Classify maps a native failure signal to an ErrorKind. The timeout and
// permission flags take precedence over the media error code.
func Classify(mediaErrCode int, timedOut, permissionDenied bool) ErrorKind {
	if timedOut {
		return KindTimeout
	}
	if permissionDenied {
		return KindAutoplayBlocked
	}
	switch mediaErrCode {
	case MediaErrAborted:
		return KindAborted
	case MediaErrNetwork:
		return KindNetworkError
	case MediaErrDecode:
		return KindDecodeError
	case MediaErrSrcNotSupported:
		return KindFormatUnsupported
	default:
		return KindUnknown
	}
}
