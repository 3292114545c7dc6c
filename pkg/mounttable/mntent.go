package mounttable

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/marmos91/mountattr/internal/logger"
)

// maxLineSize bounds a single mount table line.
const maxLineSize = 64 * 1024

// ParseMntent reads fstab(5)-formatted records:
//
//	fsname dir type opts [freq [passno]]
//
// Lines with fewer than four fields are malformed.
//
// Fields are whitespace separated with octal escapes (\040 for space etc.).
// Blank lines and '#' comments are skipped. Malformed lines are skipped with
// a diagnostic; only a read error fails the parse.
func ParseMntent(r io.Reader, origin string) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		e, err := parseMntentLine(line)
		if err != nil {
			logger.Say(component, true, "%s:%d: skipping malformed mount entry: %v", origin, lineNo, err)
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed reading %s: %w", origin, err)
	}

	return entries, nil
}

func parseMntentLine(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return Entry{}, fmt.Errorf("expected at least 4 fields, got %d", len(fields))
	}

	e := Entry{
		FSName:    unescapeOctal(fields[0]),
		DirMaster: unescapeOctal(fields[1]),
		FSType:    unescapeOctal(fields[2]),
		Options:   unescapeOctal(fields[3]),
	}
	e.DirBranch = e.DirMaster

	var err error
	if len(fields) > 4 {
		if e.DumpFrequency, err = strconv.Atoi(fields[4]); err != nil {
			return Entry{}, fmt.Errorf("invalid dump frequency %q", fields[4])
		}
	}
	if len(fields) > 5 {
		if e.FsckPass, err = strconv.Atoi(fields[5]); err != nil {
			return Entry{}, fmt.Errorf("invalid fsck pass %q", fields[5])
		}
	}

	if !strings.HasPrefix(e.DirMaster, "/") {
		return Entry{}, fmt.Errorf("mount directory %q is not absolute", e.DirMaster)
	}

	return e, nil
}

// unescapeOctal decodes the \ooo escapes the kernel and mount(8) use for
// whitespace and backslashes. Invalid sequences are kept verbatim.
func unescapeOctal(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			v := (s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0')
			b.WriteByte(v)
			i += 3
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}
