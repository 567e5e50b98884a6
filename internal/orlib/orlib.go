// Package orlib reads the OR-Library style reference cases used to check the
// packer against published EB-AFIT results.
//
// Each case is laid out as:
//
//	<id line>
//	<label> <total items> <packed items> <container volume %> <item volume %>
//	<length> <width> <height> [<weight> <max weight>]
//	<item type count>
//	<id> <dim1> <flag> <dim2> <flag> <dim3> <flag> <quantity> [<weight>]   (repeated)
//
// Blank lines between cases are ignored.
package orlib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/eugenenazirov/container-packing/internal/packing"
)

// ErrMalformed is returned when the input does not follow the case layout.
var ErrMalformed = errors.New("malformed reference case")

// Expected holds the published results for a case.
type Expected struct {
	TotalItems         int
	PackedItems        int
	ContainerVolumePct float64
	ItemVolumePct      float64
}

// Case is one reference problem.
type Case struct {
	ID        string
	Expected  Expected
	Container packing.Container
	Items     []packing.Item
}

// ParseFile reads all cases from the file at path.
func ParseFile(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads all cases from r.
func Parse(r io.Reader) ([]Case, error) {
	lr := &lineReader{scanner: bufio.NewScanner(r)}

	var cases []Case
	for {
		id, ok := lr.next()
		if !ok {
			break
		}
		c, err := parseCase(lr, strings.TrimSpace(id), len(cases)+1)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	if err := lr.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read reference file: %w", err)
	}
	return cases, nil
}

func parseCase(lr *lineReader, id string, seq int) (Case, error) {
	c := Case{ID: id}

	fields, err := lr.fields(5)
	if err != nil {
		return Case{}, err
	}
	if c.Expected, err = parseExpected(fields); err != nil {
		return Case{}, lr.errorf("%v", err)
	}

	fields, err = lr.fields(3)
	if err != nil {
		return Case{}, err
	}
	nums, err := parseFloats(fields)
	if err != nil {
		return Case{}, lr.errorf("%v", err)
	}
	c.Container = packing.Container{ID: seq, Length: nums[0], Width: nums[1], Height: nums[2]}
	if len(nums) >= 5 {
		c.Container.Weight = nums[3]
		c.Container.MaxAllowedWeight = nums[4]
	}

	fields, err = lr.fields(1)
	if err != nil {
		return Case{}, err
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 0 {
		return Case{}, lr.errorf("item type count %q", fields[0])
	}

	c.Items = make([]packing.Item, 0, count)
	for i := 0; i < count; i++ {
		fields, err = lr.fields(8)
		if err != nil {
			return Case{}, err
		}
		item, err := parseItem(fields)
		if err != nil {
			return Case{}, lr.errorf("%v", err)
		}
		c.Items = append(c.Items, item)
	}
	return c, nil
}

func parseExpected(fields []string) (Expected, error) {
	total, err := strconv.Atoi(fields[1])
	if err != nil {
		return Expected{}, fmt.Errorf("total items %q", fields[1])
	}
	packed, err := strconv.Atoi(fields[2])
	if err != nil {
		return Expected{}, fmt.Errorf("packed items %q", fields[2])
	}
	pcts, err := parseFloats(fields[3:5])
	if err != nil {
		return Expected{}, err
	}
	return Expected{
		TotalItems:         total,
		PackedItems:        packed,
		ContainerVolumePct: pcts[0],
		ItemVolumePct:      pcts[1],
	}, nil
}

func parseItem(fields []string) (packing.Item, error) {
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return packing.Item{}, fmt.Errorf("item id %q", fields[0])
	}
	dims, err := parseFloats([]string{fields[1], fields[3], fields[5]})
	if err != nil {
		return packing.Item{}, err
	}
	qty, err := strconv.Atoi(fields[7])
	if err != nil {
		return packing.Item{}, fmt.Errorf("quantity %q", fields[7])
	}

	item := packing.Item{ID: id, Dim1: dims[0], Dim2: dims[1], Dim3: dims[2], Quantity: qty}
	if len(fields) > 8 {
		if item.Weight, err = strconv.ParseFloat(fields[8], 64); err != nil {
			return packing.Item{}, fmt.Errorf("weight %q", fields[8])
		}
	}
	return item, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("number %q", f)
		}
		out[i] = v
	}
	return out, nil
}

type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

// next returns the next non-blank line.
func (lr *lineReader) next() (string, bool) {
	for lr.scanner.Scan() {
		lr.line++
		if text := lr.scanner.Text(); strings.TrimSpace(text) != "" {
			return text, true
		}
	}
	return "", false
}

// fields returns the fields of the next non-blank line, requiring at least want.
func (lr *lineReader) fields(want int) ([]string, error) {
	text, ok := lr.next()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of input after line %d", ErrMalformed, lr.line)
	}
	fields := strings.Fields(text)
	if len(fields) < want {
		return nil, lr.errorf("expected at least %d fields, got %d", want, len(fields))
	}
	return fields, nil
}

func (lr *lineReader) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, lr.line, fmt.Sprintf(format, args...))
}
