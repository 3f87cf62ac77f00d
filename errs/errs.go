// Package errs defines the sentinel errors returned throughout geomedea.
//
// Callers should match errors with errors.Is, since call sites wrap these
// sentinels with additional context via fmt.Errorf("%w: ...", errs.ErrX, ...).
package errs

import "errors"

var (
	// ErrBadMagic is returned when a file's leading 8 bytes don't match "geomedea".
	ErrBadMagic = errors.New("geomedea: bad magic")
	// ErrUnsupportedVersion is returned when the header version or layout flags
	// aren't understood by this reader.
	ErrUnsupportedVersion = errors.New("geomedea: unsupported version")
	// ErrSchemaInvalid is returned when the property schema fails to decode or
	// declares an unknown property kind.
	ErrSchemaInvalid = errors.New("geomedea: invalid schema")
	// ErrTruncated is returned when a stream ends before the expected number of bytes.
	ErrTruncated = errors.New("geomedea: truncated stream")
	// ErrVarintOverflow is returned when a varint exceeds 10 bytes.
	ErrVarintOverflow = errors.New("geomedea: varint overflow")
	// ErrInvalidVariant is returned for an unknown geometry or property tag.
	ErrInvalidVariant = errors.New("geomedea: invalid variant tag")
	// ErrSchemaIndexOutOfRange is returned when a feature references an unknown
	// property schema index.
	ErrSchemaIndexOutOfRange = errors.New("geomedea: schema index out of range")
	// ErrUtf8 is returned when a string property contains invalid UTF-8.
	ErrUtf8 = errors.New("geomedea: invalid utf-8")
	// ErrCoordinateOverflow is returned when a fixed-precision coordinate conversion
	// would exceed int32 range.
	ErrCoordinateOverflow = errors.New("geomedea: coordinate overflow")
	// ErrCompressionFailed is returned when a decompressor rejects its input or
	// produces a length mismatch.
	ErrCompressionFailed = errors.New("geomedea: compression failed")
	// ErrPropertyKindMismatch is returned by the writer when a property value's
	// kind doesn't match its schema-declared kind.
	ErrPropertyKindMismatch = errors.New("geomedea: property kind mismatch")
	// ErrPageOverflow is returned by the writer when a single feature exceeds the
	// page size budget and the writer is configured to reject oversize features.
	ErrPageOverflow = errors.New("geomedea: page overflow")
	// ErrIO wraps underlying I/O or HTTP failures.
	ErrIO = errors.New("geomedea: i/o error")
	// ErrCancelled is returned when a selection's consumer has been dropped.
	ErrCancelled = errors.New("geomedea: selection cancelled")
	// ErrClosed is returned when an operation is attempted on a writer that has
	// already been closed.
	ErrClosed = errors.New("geomedea: already closed")
	// ErrEmptyFile is returned when a writer is closed without having written any
	// features.
	ErrEmptyFile = errors.New("geomedea: file has no features")
)
