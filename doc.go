// Package archivekit validates ZIP, TAR and 7z archives for structural
// integrity and, optionally, against an expected checksum.
//
// A [Validator] accepts a single file or a directory. Directories are walked
// recursively and their files validated by a bounded worker pool; every file
// yields exactly one [Record], and a damaged or unreadable file never aborts
// the run.
//
// # Basic Usage
//
//	logs, err := archivekit.NewLogWriter("logs", archivekit.DefaultMaxLogs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	v, err := archivekit.New(
//	    archivekit.WithChecksum("3de8f8b0dc94b8c2230fab9ec0ba0506", "md5"),
//	    archivekit.WithLogWriter(logs),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	records, err := v.Validate(ctx, "/backups")
//
// # Classification
//
// The checker is chosen by exact, case-sensitive file suffix (.zip, .tar,
// .7z). Other files produce an "unsupported" record and are not checksummed.
// Custom checkers are registered through an [archivecheck.Registry] passed
// with [WithRegistry].
//
// # Log Files
//
// A [LogWriter] stores one JSON file per validated file and keeps the newest
// maxLogs of them. Names embed a microsecond timestamp and a sequence number,
// so they are unique and sort chronologically.
//
// # Checksums
//
// Supported algorithms: md5, sha1, sha256 (default), sha512, crc32, xxhash
// and blake3. See [ParseChecksumAlgorithm].
//
// Reports in JSON, CSV and HTML are rendered by the report subpackage.
package archivekit
