package errs

import (
	"strings"
	"time"
)

// Kind classifies the condition that produced an Error, so callers can
// branch on the condition instead of matching on the message string.
type Kind int

const (
	// KindNone is the zero value: no particular condition, just a message.
	KindNone Kind = iota
	// KindMalformedHeader: field/parameter variant mismatch, impossible length,
	// KDF-scheme vs parameter mismatch.
	KindMalformedHeader
	// KindMismatchIdentifier: the magic read from the wire doesn't match the
	// record being decoded.
	KindMismatchIdentifier
	// KindEncryptedMainHeader: encryption flag outside the values the decoder
	// being used can handle.
	KindEncryptedMainHeader
	// KindKeyNotOnPosition: an encode_for_key tag was not found at the current
	// cursor position. Not a failure - callers treat this as "field absent".
	KindKeyNotOnPosition
	// KindUnknownEncryptionAlgorithm: selector byte outside {0,1}.
	KindUnknownEncryptionAlgorithm
	// KindUnknownFileType: FileType byte outside {1..4}.
	KindUnknownFileType
	// KindMissingEncryptionHeader: producer asked for encrypted output but no
	// EncryptionHeader was configured.
	KindMissingEncryptionHeader
	// KindChunkNumberNotInSegment: offset lookup miss in a Segment.
	KindChunkNumberNotInSegment
	// KindDecryptionFailed: AEAD tag mismatch or CBC padding error.
	KindDecryptionFailed
	// KindFileExtensionParser: a segment filename didn't match the .zNN pattern.
	KindFileExtensionParser
	// KindIO: underlying reader/writer failure.
	KindIO
)

// Error struct easyier error return to the api and is used
// accross the project.
type Error struct {
	Err        error     `json:"-"`
	StatusCode int       `json:"_"`
	Message    string    `json:"message,omitempty"`
	Path       string    `json:"path,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
	ErrKind    Kind      `json:"-"`
}

// Implementation of the error interface for this struct
func (e *Error) Error() string {
	res := ""
	var ce error = e
	cnt := 0
	for ce != nil {
		if cnt > 0 {
			res += strings.Repeat("\t", cnt)
			res += "| "
		}
		if cee, ok := ce.(*Error); ok {
			res += cee.Message
			ce = cee.Err
		} else {
			res += ce.Error()
			break
		}
		res += "\n"
		cnt++
	}
	return res
}

// New creates a new error
func New(message string) *Error {
	return &Error{Message: message, Timestamp: time.Now()}
}

// NewWithCode creates a new error with error code
func NewWithCode(message string, code int) *Error {
	return &Error{StatusCode: code, Message: message, Timestamp: time.Now()}
}

// NewKind creates a new error carrying a Kind, for conditions callers need
// to branch on (see Is).
func NewKind(kind Kind, message string) *Error {
	return &Error{ErrKind: kind, Message: message, Timestamp: time.Now()}
}

// Kind returns the Kind of the error, walking wrapped *Error values until one
// carries a non-zero Kind. Returns KindNone if none do.
func (e *Error) Kind() Kind {
	var ce error = e
	for ce != nil {
		cee, ok := ce.(*Error)
		if !ok {
			break
		}
		if cee.ErrKind != KindNone {
			return cee.ErrKind
		}
		ce = cee.Err
	}
	return KindNone
}

// Is reports whether err is (or wraps) an *Error whose Kind equals kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind() == kind
}

// Add the message to an error, if cannot or message already exists,
// wrap it with another one with the new path
// Wrap returns nil if err == nil
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		if e.Message == "" {
			e.Message = message
			return e
		}
	}
	return &Error{Err: err, Message: message}
}

// WrapWithError wraps err inside an existing error
func WrapWithError(err error, err2 error) error {
	if err == nil {
		return nil
	}
	if e, ok := err2.(*Error); ok {
		e.Err = err
		return e
	} else {
		return &Error{
			Err:     err,
			Message: err2.Error(),
		}
	}
}

// Add the path to an error, if cannot or path already exists,
// wrap it with another one with the new path
// WrapPath returns nil if err == nil
func WrapPath(err error, path string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		if e.Path == "" {
			e.Path = path
			return e
		}
	}
	return &Error{Err: err, Path: path}
}

// Collaps create a new error by putting the first path found and the
// first message found inside the error.
func Collaps(e error) error {
	if e == nil {
		return nil
	}
	res := &Error{}
	var ce error = e

	// find first path
	for ce != nil && (res.Path == "" || res.Message == "" || res.StatusCode == 0) {
		if res.Message == "" && ce.Error() != "" {
			res.Message = ce.Error()
		}
		if c, ok := ce.(*Error); ok {
			if res.Path == "" && c.Path != "" {
				res.Path = c.Path
			}
			if res.StatusCode == 0 && c.StatusCode != 0 {
				res.StatusCode = c.StatusCode
			}
			ce = c.Err
		} else {
			break
		}
	}
	return res
}
