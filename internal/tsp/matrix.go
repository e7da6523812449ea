// Package tsp holds the reference route-optimization drivers whose runs are
// recorded by the store: distance-matrix loading, tour evaluation and a few
// classic heuristics.
package tsp

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Matrix is a square distance matrix; Matrix[i][j] is the cost from city i to j.
type Matrix [][]float64

func (m Matrix) Size() int {
	return len(m)
}

// LoadMatrix reads a ';'-separated distance matrix. Decimal commas are accepted.
func LoadMatrix(path string) (Matrix, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open distance matrix %s: %w", path, err)
	}
	defer file.Close()

	m, err := ReadMatrix(file)
	if err != nil {
		return nil, fmt.Errorf("parse distance matrix %s: %w", path, err)
	}
	return m, nil
}

func ReadMatrix(r io.Reader) (Matrix, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var m Matrix
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		values := make([]float64, 0, len(row))
		for _, field := range row {
			value, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(field), ",", "."), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse %q: %w", len(m)+1, field, err)
			}
			values = append(values, value)
		}
		m = append(m, values)
	}

	if len(m) == 0 {
		return nil, errors.New("empty distance matrix")
	}
	for i, row := range m {
		if len(row) != len(m) {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i+1, len(row), len(m))
		}
	}
	return m, nil
}
