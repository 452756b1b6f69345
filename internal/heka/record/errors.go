package record

import "github.com/pkg/errors"

// Every failure surfaced by the decoder wraps exactly one of these kinds so
// callers can classify it with errors.Is.
var (
	// ErrFormatViolation means a structural invariant of the file is broken:
	// a bad signature, a record size mismatch, children under a leaf or
	// bytes left over after a sub-bundle.
	ErrFormatViolation = errors.New("format violation")

	// ErrUnsupportedVariant marks an on-disk configuration that is known but
	// has never been validated, such as big endian data or interleaving.
	ErrUnsupportedVariant = errors.New("unsupported variant")

	// ErrUnsupportedVersion is returned for file versions without a schema
	// generation.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrPrecondition is caller misuse: wrong buffer sizes, missing index
	// paths, reopening an open file.
	ErrPrecondition = errors.New("precondition violation")
)
