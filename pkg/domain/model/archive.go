package model

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var nonWordPattern = regexp.MustCompile(`\W`)

// ArchiveOpener is called exactly once, right before the first archive byte
// is produced. It receives the attachment filename and returns the sink the
// zip stream is written to.
type ArchiveOpener func(filename string) io.Writer

// SanitizeName replaces every non-word character with '_'.
func SanitizeName(name string) string {
	return nonWordPattern.ReplaceAllString(name, "_")
}

// CourseName returns name, or a placeholder derived from courseID when the
// course has no name.
func CourseName(name, courseID string) string {
	if name == "" {
		return "Course_" + courseID
	}
	return name
}

// ArchiveFileName returns the attachment filename of a course archive.
func ArchiveFileName(courseName string) string {
	return SanitizeName(courseName) + "_materials.zip"
}

// SummaryFileName returns the name of the summary entry. The timestamp is
// ISO-8601 in UTC with ':' and '.' replaced by '-'.
func SummaryFileName(courseName string, generatedAt time.Time) string {
	ts := generatedAt.UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return fmt.Sprintf("_summary-%s-%s.txt", SanitizeName(courseName), ts)
}

// PathSegment makes a Drive or Classroom name safe to use as a single
// archive path component. Names are NFC-normalized so that visually equal
// names map to the same entry.
func PathSegment(name string) string {
	name = norm.NFC.String(strings.ReplaceAll(name, "/", "_"))
	switch strings.TrimSpace(name) {
	case "":
		return DefaultTopic
	case ".", "..":
		return strings.ReplaceAll(name, ".", "_")
	}
	return name
}

// JoinPath appends a name to an archive path.
func JoinPath(parent, name string) string {
	if parent == "" {
		return PathSegment(name)
	}
	return parent + "/" + PathSegment(name)
}

// LedgerEntry is one archived file as listed in the summary.
type LedgerEntry struct {
	Path string
	Size int64
}

// Ledger records the size of every archive entry written during one download.
type Ledger struct {
	sizes      map[string]int64
	incomplete []string
	total      int64
}

func NewLedger() *Ledger {
	return &Ledger{sizes: make(map[string]int64)}
}

// MarkIncomplete records an entry whose source broke off while streaming.
// It is listed separately and does not count toward the total.
func (l *Ledger) MarkIncomplete(path string) {
	l.incomplete = append(l.incomplete, path)
}

// Incomplete returns the truncated entry paths sorted.
func (l *Ledger) Incomplete() []string {
	paths := append([]string(nil), l.incomplete...)
	sort.Strings(paths)
	return paths
}

// Add records an entry. Recording the same path twice keeps the latest size.
func (l *Ledger) Add(path string, size int64) {
	if old, ok := l.sizes[path]; ok {
		l.total -= old
	}
	l.sizes[path] = size
	l.total += size
}

func (l *Ledger) Total() int64 {
	return l.total
}

func (l *Ledger) Len() int {
	return len(l.sizes)
}

// Entries returns the recorded entries sorted by path.
func (l *Ledger) Entries() []LedgerEntry {
	entries := make([]LedgerEntry, 0, len(l.sizes))
	for path, size := range l.sizes {
		entries = append(entries, LedgerEntry{Path: path, Size: size})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries
}

// Summary renders the plaintext summary appended to the archive.
func (l *Ledger) Summary(courseName string, generatedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Download Summary for: %s\n", courseName)
	fmt.Fprintf(&b, "Generated on: %s\n", generatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Total size: %s\n\n", FormatBytes(l.total))
	b.WriteString("Files:\n")
	for _, e := range l.Entries() {
		fmt.Fprintf(&b, "%s (%s)\n", e.Path, FormatBytes(e.Size))
	}

	if incomplete := l.Incomplete(); len(incomplete) > 0 {
		b.WriteString("\nIncomplete:\n")
		for _, path := range incomplete {
			fmt.Fprintf(&b, "%s\n", path)
		}
	}
	return b.String()
}
