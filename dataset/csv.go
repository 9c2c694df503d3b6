package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// FromCSV reads a numeric CSV table into a dense matrix. When hasHeader is
// true the first record is returned as column names instead of data.
func FromCSV(r io.Reader, hasHeader bool) (*mat.Dense, []string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, accel.NewInvalidArgError("FromCSV", fmt.Sprintf("malformed CSV: %v", err))
	}

	var header []string
	if hasHeader && len(records) > 0 {
		header = records[0]
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, nil, accel.ErrEmptyInput
	}

	cols := len(records[0])
	X := mat.NewDense(len(records), cols, nil)
	for i, rec := range records {
		if len(rec) != cols {
			return nil, nil, accel.NewInvalidArgError("FromCSV",
				fmt.Sprintf("row %d has %d fields, expected %d", i, len(rec), cols))
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, accel.NewInvalidArgError("FromCSV",
					fmt.Sprintf("row %d column %d: %q is not numeric", i, j, field))
			}
			X.Set(i, j, v)
		}
	}
	return X, header, nil
}

// FromCSVFile reads a numeric CSV file into a dense matrix.
func FromCSVFile(path string, hasHeader bool) (*mat.Dense, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return FromCSV(f, hasHeader)
}
