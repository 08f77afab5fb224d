package archivecheck

import (
	"errors"
	"fmt"
	"time"
)

// Outcome contains the result of a single archive check
type Outcome struct {
	// Valid indicates whether the archive was read back completely
	Valid bool

	// Kind categorizes the failure. Empty when Valid is true.
	Kind FailureKind

	// Reason is a human-readable description of the failure
	Reason string

	// Entries is the number of entries read before the check finished
	Entries int

	// Bytes is the number of uncompressed bytes read back
	Bytes int64

	// Duration is how long the check took
	Duration time.Duration
}

// Err returns the outcome as an error, nil if valid
func (o Outcome) Err() error {
	if o.Valid {
		return nil
	}
	return NewCheckError(o.Kind, o.Reason, nil)
}

// Summary returns a human-readable summary of the outcome
func (o Outcome) Summary() string {
	if o.Valid {
		return fmt.Sprintf("valid (%d entries, %d bytes)", o.Entries, o.Bytes)
	}
	return fmt.Sprintf("invalid [%s]: %s", o.Kind, o.Reason)
}

// Passed creates a successful outcome
func Passed(entries int, bytes int64) Outcome {
	return Outcome{
		Valid:   true,
		Entries: entries,
		Bytes:   bytes,
	}
}

// Failed creates a failed outcome from err. CheckErrors keep their kind and
// message, anything else is classified.
func Failed(err error) Outcome {
	if err == nil {
		return Outcome{Valid: false, Kind: KindUnexpected, Reason: "unknown failure"}
	}

	var checkErr *CheckError
	if errors.As(err, &checkErr) {
		reason := checkErr.Message
		if checkErr.Err != nil {
			reason = fmt.Sprintf("%s: %v", checkErr.Message, checkErr.Err)
		}
		return Outcome{Valid: false, Kind: checkErr.Kind, Reason: reason}
	}

	return Outcome{Valid: false, Kind: Classify(err), Reason: err.Error()}
}
