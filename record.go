package archivekit

import (
	"encoding/json"
	"time"

	"github.com/gobeaver/archivekit/archivecheck"
)

// FormatUnsupported tags records whose extension has no checker
const FormatUnsupported = "unsupported"

// FormatResult is the outcome of the structural archive check.
// Format is one of zip, tar, 7z or unsupported; an unsupported result
// carries no validity flag.
type FormatResult struct {
	Format  string                   `json:"format"`
	Valid   bool                     `json:"valid"`
	Failure archivecheck.FailureKind `json:"failure,omitempty"`
	Reason  string                   `json:"reason,omitempty"`
	Entries int                      `json:"entries,omitempty"`
}

// Supported reports whether a checker ran for this result
func (r FormatResult) Supported() bool {
	return r.Format != FormatUnsupported
}

// MarshalJSON omits the valid flag for unsupported results
func (r FormatResult) MarshalJSON() ([]byte, error) {
	type plain FormatResult
	if r.Supported() {
		return json.Marshal(plain(r))
	}
	return json.Marshal(struct {
		Format string `json:"format"`
	}{Format: r.Format})
}

// ChecksumResult is the outcome of checksum verification
type ChecksumResult struct {
	Algorithm ChecksumAlgorithm        `json:"algorithm"`
	Expected  string                   `json:"expected"`
	Actual    string                   `json:"actual,omitempty"`
	Valid     bool                     `json:"valid"`
	Failure   archivecheck.FailureKind `json:"failure,omitempty"`
	Reason    string                   `json:"reason,omitempty"`
}

// Record is the validation result for one file
type Record struct {
	Path      string          `json:"file"`
	Format    FormatResult    `json:"format"`
	Checksum  *ChecksumResult `json:"checksum,omitempty"`
	CheckedAt time.Time       `json:"checked_at"`
	Duration  time.Duration   `json:"duration_ns"`
}

// Supported reports whether the file had a recognized archive extension
func (r Record) Supported() bool {
	return r.Format.Supported()
}

// Passed reports whether every check that ran succeeded.
// Unsupported files never pass.
func (r Record) Passed() bool {
	if !r.Supported() || !r.Format.Valid {
		return false
	}
	return r.Checksum == nil || r.Checksum.Valid
}

// Summary aggregates a set of records
type Summary struct {
	Total              int `json:"total"`
	Passed             int `json:"passed"`
	Failed             int `json:"failed"`
	Unsupported        int `json:"unsupported"`
	ChecksumMismatches int `json:"checksum_mismatches"`
}

// Summarize counts passed, failed and unsupported records
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch {
		case !r.Supported():
			s.Unsupported++
		case r.Passed():
			s.Passed++
		default:
			s.Failed++
		}
		if r.Checksum != nil && !r.Checksum.Valid {
			s.ChecksumMismatches++
		}
	}
	return s
}
