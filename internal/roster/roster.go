// Package roster reads the participant CSV. The file needs NAME, BIO and SO
// columns, matched case-insensitively; SO names the participant's significant
// other, who must not draw them and vice versa. Extra columns are ignored.
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/austinorth/secret-santa/internal/exchange"
)

var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrEmptyName      = errors.New("NAME field cannot be empty")
	ErrDuplicateName  = errors.New("duplicate NAME")
)

var requiredColumns = []string{"NAME", "BIO", "SO"}

// Parse reads a roster CSV. Row errors carry the row number, counting the
// header as line 1 the way spreadsheet users expect.
func Parse(r io.Reader) ([]exchange.Participant, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(requiredColumns, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read roster header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToUpper(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var participants []exchange.Participant
	seen := make(map[string]int)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}

		name := strings.TrimSpace(record[index["NAME"]])
		if name == "" {
			return nil, fmt.Errorf("line %d: %w", line, ErrEmptyName)
		}
		key := strings.ToLower(name)
		if first, dup := seen[key]; dup {
			return nil, fmt.Errorf("line %d: %w: %s already appears on line %d", line, ErrDuplicateName, name, first)
		}
		seen[key] = line

		participants = append(participants, exchange.Participant{
			Name:      name,
			Bio:       strings.TrimSpace(record[index["BIO"]]),
			Exclusion: strings.TrimSpace(record[index["SO"]]),
		})
	}
	return participants, nil
}

// ParseFile reads and parses a roster from disk. It also returns the raw
// file contents so callers can snapshot exactly what was parsed.
func ParseFile(path string) ([]exchange.Participant, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read roster: %w", err)
	}
	participants, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	return participants, data, nil
}
