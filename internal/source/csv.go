package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shanehull/shopfinder/internal/model"
)

// ReadCategories loads categories from a file. A .csv file must carry a
// "category" header column; anything else is read as one category per line.
func ReadCategories(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open categories file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readCSV(f)
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return model.ParseCategories(string(b)), nil
}

func readCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "category") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errors.New(`csv has no "category" column`)
	}

	var categories []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if col < len(record) {
			if c := strings.TrimSpace(record[col]); c != "" {
				categories = append(categories, c)
			}
		}
	}
	return categories, nil
}
