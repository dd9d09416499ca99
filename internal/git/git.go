package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// ChangedFile is one file of a diff. ChangedLines are line numbers in the new
// version of the file.
type ChangedFile struct {
	Path         string
	ChangedLines []int
	Deleted      bool
}

// hunkHeader captures the new-side start and length of `@@ -a,b +c,d @@`.
var hunkHeader = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

// GetChangedFiles diffs the working tree in dir against baseRef. Paths are
// relative to dir and changes outside dir are left out.
func GetChangedFiles(ctx context.Context, dir, baseRef string) ([]ChangedFile, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--relative", "-U0", baseRef)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	return parseDiff(output)
}

// FilterBySuffix keeps the changes whose path ends with one of suffixes.
func FilterBySuffix(changes []ChangedFile, suffixes ...string) []ChangedFile {
	var out []ChangedFile
	for _, c := range changes {
		for _, s := range suffixes {
			if strings.HasSuffix(c.Path, s) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func parseDiff(output []byte) ([]ChangedFile, error) {
	var changes []ChangedFile
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if path, ok := strings.CutPrefix(line, "diff --git "); ok {
			changes = append(changes, ChangedFile{Path: newSidePath(path), ChangedLines: []int{}})
			continue
		}
		if len(changes) == 0 {
			continue
		}
		cur := &changes[len(changes)-1]
		switch {
		case line == "+++ /dev/null":
			cur.Deleted = true
		case strings.HasPrefix(line, "+++ b/"):
			cur.Path = strings.TrimPrefix(line, "+++ b/")
		case strings.HasPrefix(line, "@@"):
			cur.ChangedLines = append(cur.ChangedLines, hunkLines(line)...)
		}
	}
	return changes, scanner.Err()
}

// newSidePath reads "b/<path>" from the "a/<path> b/<path>" pair.
func newSidePath(pair string) string {
	if i := strings.LastIndex(pair, " b/"); i >= 0 {
		return pair[i+len(" b/"):]
	}
	return pair
}

// hunkLines expands a hunk header into its new-side line numbers. A length of
// zero is a pure deletion and yields nothing.
func hunkLines(header string) []int {
	m := hunkHeader.FindStringSubmatch(header)
	if m == nil {
		return nil
	}
	start, _ := strconv.Atoi(m[1])
	length := 1
	if m[2] != "" {
		length, _ = strconv.Atoi(m[2])
	}
	lines := make([]int, 0, length)
	for l := start; l < start+length; l++ {
		lines = append(lines, l)
	}
	return lines
}
