package processor

import (
	"fmt"

	"github.com/Kavirubc/tplcheck/pkg/models"
)

// Partition splits rows into consecutive batches of at most size rows.
// Concatenating the batches yields rows again; only the last batch may be short.
func Partition(rows []models.Row, size int) ([][]models.Row, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid batch size %d: must be positive", size)
	}

	batches := make([][]models.Row, 0, BatchCount(len(rows), size))
	for i := 0; i < len(rows); i += size {
		end := i + size
		if end > len(rows) {
			end = len(rows)
		}
		batches = append(batches, rows[i:end])
	}
	return batches, nil
}

// BatchCount returns ceil(n/size), or 0 when size is not positive.
func BatchCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
