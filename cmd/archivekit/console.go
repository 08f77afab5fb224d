package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gobeaver/archivekit"
	"github.com/muesli/termenv"
)

// console prints per-file results and the run summary. Colors are dropped
// automatically when the output is not a terminal.
type console struct {
	out *termenv.Output
}

func newConsole(w io.Writer) *console {
	return &console{out: termenv.NewOutput(w)}
}

func (c *console) green(s string) termenv.Style  { return c.out.String(s).Foreground(c.out.Color("2")) }
func (c *console) red(s string) termenv.Style    { return c.out.String(s).Foreground(c.out.Color("1")) }
func (c *console) yellow(s string) termenv.Style { return c.out.String(s).Foreground(c.out.Color("3")) }
func (c *console) gray(s string) termenv.Style   { return c.out.String(s).Foreground(c.out.Color("8")) }

// Record prints one line per record
func (c *console) Record(rec archivekit.Record) {
	switch {
	case !rec.Supported():
		fmt.Fprintf(c.out, "  %s %s %s\n", c.yellow("-"), rec.Path, c.gray("unsupported format"))
	case rec.Passed():
		fmt.Fprintf(c.out, "  %s %s %s\n", c.green("✓"), rec.Path, c.gray(passDetail(rec)))
	default:
		fmt.Fprintf(c.out, "  %s %s %s\n", c.red("✗").Bold(), rec.Path, failDetail(rec))
	}
}

func passDetail(rec archivekit.Record) string {
	detail := fmt.Sprintf("%s, %d entries", rec.Format.Format, rec.Format.Entries)
	if rec.Checksum != nil {
		detail += ", " + string(rec.Checksum.Algorithm) + " ok"
	}
	return detail
}

func failDetail(rec archivekit.Record) string {
	var parts []string
	if !rec.Format.Valid {
		parts = append(parts, fmt.Sprintf("%s %s: %s", rec.Format.Format, rec.Format.Failure, rec.Format.Reason))
	}
	if rec.Checksum != nil && !rec.Checksum.Valid {
		parts = append(parts, fmt.Sprintf("%s: %s", rec.Checksum.Algorithm, rec.Checksum.Reason))
	}
	return strings.Join(parts, "; ")
}

// Summary prints the end-of-run counts
func (c *console) Summary(s archivekit.Summary) {
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "  %s %d files\n", c.out.String("Checked").Bold(), s.Total)
	fmt.Fprintf(c.out, "    %s %d\n", c.green("passed:     "), s.Passed)
	fmt.Fprintf(c.out, "    %s %d\n", c.red("failed:     "), s.Failed)
	fmt.Fprintf(c.out, "    %s %d\n", c.yellow("unsupported:"), s.Unsupported)
	if s.ChecksumMismatches > 0 {
		fmt.Fprintf(c.out, "    %s %d\n", c.red("checksum mismatches:"), s.ChecksumMismatches)
	}
	fmt.Fprintln(c.out)
}

// Info prints a plain status line
func (c *console) Info(format string, args ...any) {
	fmt.Fprintf(c.out, "  "+format+"\n", args...)
}
