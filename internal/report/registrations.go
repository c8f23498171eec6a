// Package report reads and writes the spreadsheets the admins work with:
// registration exports and the student roster used for announcements.
package report

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/Manish1808/Cybernauts/internal/domain"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	headerRow    = 6
	maxSheetName = 31
)

var header = []interface{}{"S.No", "Name", "Email", "Phone", "Roll Number", "Branch", "Year", "Registered At"}

var colWidths = []float64{10, 30, 35, 15, 15, 15, 10, 20}

// WriteRegistrations writes one worksheet per event to w. Registration
// timestamps are shown in loc.
func WriteRegistrations(w io.Writer, events []domain.Event, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D3D3D3"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	used := map[string]bool{}
	for i, e := range events {
		name := uniqueSheetName(e.Title+" - Registrations", used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeEventSheet(f, name, e, headerStyle, loc); err != nil {
			return fmt.Errorf("write sheet for %q: %w", e.Title, err)
		}
	}

	return f.Write(w)
}

func writeEventSheet(f *excelize.File, sheet string, e domain.Event, headerStyle int, loc *time.Location) error {
	eventType := e.Type
	if eventType == "" {
		eventType = "N/A"
	}
	info := []string{
		"Event: " + e.Title,
		"Type: " + eventType,
		"Date: " + e.StartDate.UTC().Format("02/01/2006"),
		"Total Registrations: " + strconv.Itoa(len(e.Participants)),
	}
	for i, line := range info {
		if err := f.SetCellValue(sheet, cell(1, i+1), line); err != nil {
			return err
		}
	}

	for i, width := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(sheet, cell(1, headerRow), &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell(1, headerRow), cell(len(header), headerRow), headerStyle); err != nil {
		return err
	}

	if len(e.Participants) == 0 {
		row := []interface{}{"-", "No registrations yet", "", "", "", "", "", ""}
		return f.SetSheetRow(sheet, cell(1, headerRow+1), &row)
	}

	for i, p := range e.Participants {
		registered := ""
		if !p.RegisteredAt.IsZero() {
			registered = p.RegisteredAt.In(loc).Format("02/01/2006, 15:04:05")
		}
		row := []interface{}{i + 1, p.Name, p.Email, p.Phone, p.RollNo, p.Branch, p.Year, registered}
		if err := f.SetSheetRow(sheet, cell(1, headerRow+1+i), &row); err != nil {
			return err
		}
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

var invalidSheetChars = regexp.MustCompile(`[:\\/?*\[\]]`)

// uniqueSheetName strips the characters Excel rejects, truncates to the
// sheet name limit and appends a counter on collision.
func uniqueSheetName(title string, used map[string]bool) string {
	base := strings.Trim(invalidSheetChars.ReplaceAllString(title, "_"), "'")
	if base == "" {
		base = "Registrations"
	}
	name := truncate(base, maxSheetName)
	// Excel compares sheet names case-insensitively
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName is the download name of an export.
func FileName(title string, now time.Time) string {
	return fmt.Sprintf("%s_registrations_%d.xlsx", unsafeFileChars.ReplaceAllString(title, "_"), now.UnixMilli())
}
