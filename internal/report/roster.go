package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Manish1808/Cybernauts/internal/apperr"
)

// RosterEntry is one student row of the roster spreadsheet.
type RosterEntry struct {
	Name   string
	Branch string
	Email  string
}

// FindRoster returns the first .xlsx file in dir by name.
func FindRoster(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", apperr.NotFound("no roster spreadsheet found")
	}
	if err != nil {
		return "", fmt.Errorf("read roster folder: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".xlsx") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", apperr.NotFound("no roster spreadsheet found")
	}
	slices.Sort(names)
	return filepath.Join(dir, names[0]), nil
}

// ReadRoster reads the first worksheet of the file at path. The columns are
// name, branch and email; the first row is a header. Rows without a branch
// or an email are skipped and a missing name becomes "Student".
func ReadRoster(path string) ([]RosterEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var out []RosterEntry
	for i, row := range rows {
		if i == 0 {
			continue
		}
		name, branch, email := column(row, 0), column(row, 1), column(row, 2)
		if branch == "" || email == "" {
			continue
		}
		if name == "" {
			name = "Student"
		}
		out = append(out, RosterEntry{Name: name, Branch: branch, Email: email})
	}
	return out, nil
}

func column(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// FilterByBranch keeps the entries whose branch matches one of branches,
// ignoring case.
func FilterByBranch(entries []RosterEntry, branches []string) []RosterEntry {
	var out []RosterEntry
	for _, e := range entries {
		if slices.ContainsFunc(branches, func(b string) bool {
			return strings.EqualFold(strings.TrimSpace(b), e.Branch)
		}) {
			out = append(out, e)
		}
	}
	return out
}
