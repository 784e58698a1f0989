// Package idlist reads the newline-separated list of Pixabay image ids.
package idlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"pixabaydl/pkg/models"
)

// ReadFile reads image ids from path, one per line
func ReadFile(path string) ([]models.ImageID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image ids file: %w", err)
	}
	defer f.Close()

	ids, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ids, nil
}

// Read parses image ids from r. Blank lines are skipped; any other line must
// be a positive integer.
func Read(r io.Reader) ([]models.ImageID, error) {
	var ids []models.ImageID

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid image id %q", lineNo, line)
		}
		if n <= 0 {
			return nil, fmt.Errorf("line %d: image id must be positive, got %d", lineNo, n)
		}
		ids = append(ids, models.ImageID(n))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read image ids: %w", err)
	}

	return ids, nil
}
