// Package projects reads project lists for batch cloning and analysis.
package projects

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Project is one repository to clone and analyze.
type Project struct {
	Name string
	URL  string
}

// ReadList parses a project list in CSV form with name,url records. A header
// row whose first field is "name" is skipped.
func ReadList(r io.Reader) ([]Project, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var list []Project
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading project list: %w", err)
		}
		if len(list) == 0 && strings.EqualFold(record[0], "name") {
			continue
		}
		list = append(list, Project{Name: record[0], URL: record[1]})
	}
	return list, nil
}

// ReadListFile reads a project list from path.
func ReadListFile(path string) ([]Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadList(f)
}
