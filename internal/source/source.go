// Package source produces the item sequences shown by the list: synthetic
// records, or the lines of a file or stream.
package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/HamStudy/scrollwin/internal/components/vlist"
)

// MaxLineSize is the longest line ReadLines accepts
const MaxLineSize = 1024 * 1024

// checkEvery is how many lines are read between context checks
const checkEvery = 4096

// Record is a generated item with a title and a detail line
type Record struct {
	Index int
}

// Lines implements vlist.Item
func (r Record) Lines(width int) []string {
	return []string{
		fmt.Sprintf("Record #%d", r.Index),
		fmt.Sprintf("  offset %d  checksum %08x", r.Index, checksum(r.Index)),
	}
}

// checksum is a cheap deterministic hash so generated rows differ visibly
func checksum(i int) uint32 {
	h := uint32(2166136261)
	for v := uint32(i); ; v >>= 8 {
		h ^= v & 0xff
		h *= 16777619
		if v < 256 {
			break
		}
	}
	return h
}

// Generate returns n synthetic records
func Generate(n int) []vlist.Item {
	if n < 0 {
		n = 0
	}
	items := make([]vlist.Item, n)
	for i := range items {
		items[i] = Record{Index: i}
	}
	return items
}

// ReadLines reads r line by line, one item per line
func ReadLines(ctx context.Context, r io.Reader) ([]vlist.Item, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	var items []vlist.Item
	for n := 0; scanner.Scan(); n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		items = append(items, vlist.TextItem(strings.TrimRight(scanner.Text(), "\r")))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return items, nil
}

// ReadFile reads the lines of the file at path; "-" reads standard input
func ReadFile(ctx context.Context, path string) ([]vlist.Item, error) {
	if path == "-" {
		return ReadLines(ctx, os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	items, err := ReadLines(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}
