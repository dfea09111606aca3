package export

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/go-pdf/fpdf"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/scoring"
)

type column struct {
	title string
	width float64
	align string
}

const unicodeFamily = "festival"

var (
	fontMu   sync.RWMutex
	fontData []byte
)

// SetUnicodeFont loads a TrueType font used by every later PDF, so names
// outside Latin-1 render. An empty path restores the core Helvetica font,
// which only covers cp1252.
func SetUnicodeFont(path string) error {
	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read pdf font: %w", err)
		}
		probe := fpdf.New("P", "mm", "A4", "")
		probe.AddUTF8FontFromBytes(unicodeFamily, "", b)
		if err := probe.Error(); err != nil {
			return fmt.Errorf("invalid pdf font %s: %w", path, err)
		}
		data = b
	}
	fontMu.Lock()
	fontData = data
	fontMu.Unlock()
	return nil
}

type sheet struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	family string
}

func newSheet(title string) *sheet {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	fontMu.RLock()
	data := fontData
	fontMu.RUnlock()

	s := &sheet{pdf: pdf}
	if data != nil {
		// Bold reuses the regular outlines.
		pdf.AddUTF8FontFromBytes(unicodeFamily, "", data)
		pdf.AddUTF8FontFromBytes(unicodeFamily, "B", data)
		s.family = unicodeFamily
		s.tr = func(v string) string { return v }
	} else {
		s.family = "Helvetica"
		s.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddPage()
	return s
}

func (s *sheet) heading(festival, title, subtitle string) {
	s.pdf.SetFont(s.family, "B", 16)
	s.pdf.CellFormat(0, 8, s.tr(festival), "", 1, "C", false, 0, "")
	s.pdf.SetFont(s.family, "B", 13)
	s.pdf.CellFormat(0, 7, s.tr(title), "", 1, "C", false, 0, "")
	if subtitle != "" {
		s.pdf.SetFont(s.family, "", 10)
		s.pdf.CellFormat(0, 6, s.tr(subtitle), "", 1, "C", false, 0, "")
	}
	s.pdf.Ln(4)
}

func (s *sheet) table(cols []column, rows [][]string) {
	s.pdf.SetFont(s.family, "B", 10)
	s.pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		s.pdf.CellFormat(c.width, 8, s.tr(c.title), "1", 0, "C", true, 0, "")
	}
	s.pdf.Ln(-1)

	s.pdf.SetFont(s.family, "", 10)
	for _, row := range rows {
		for i, c := range cols {
			var v string
			if i < len(row) {
				v = row[i]
			}
			s.pdf.CellFormat(c.width, 8, s.tr(v), "1", 0, c.align, false, 0, "")
		}
		s.pdf.Ln(-1)
	}
}

func (s *sheet) signatures(labels ...string) {
	s.pdf.Ln(14)
	s.pdf.SetFont(s.family, "", 10)
	w := 180.0 / float64(len(labels))
	for range labels {
		s.pdf.CellFormat(w, 6, "____________________", "", 0, "C", false, 0, "")
	}
	s.pdf.Ln(-1)
	for _, l := range labels {
		s.pdf.CellFormat(w, 6, s.tr(l), "", 0, "C", false, 0, "")
	}
	s.pdf.Ln(-1)
}

func (s *sheet) write(w io.Writer) error {
	if err := s.pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func eventSubtitle(e models.Event) string {
	cat := "On stage"
	if e.Category == models.CategoryOffStage {
		cat = "Off stage"
	}
	return fmt.Sprintf("%s | %s | Grade %s", e.Code, cat, e.GradeTier)
}

func entrantName(d models.ParticipationDetail) (chest, name string) {
	if d.Student != nil {
		return d.Student.ChestNumber, d.Student.Name
	}
	return "-", d.TeamName
}

// JudgmentSheet is the blank mark sheet handed to judges, one row per entrant.
func JudgmentSheet(w io.Writer, festival string, event models.Event, entries []models.ParticipationDetail) error {
	s := newSheet(event.Name + " judgment sheet")
	s.heading(festival, event.Name+" - Judgment sheet", eventSubtitle(event))

	cols := []column{
		{"#", 10, "C"}, {"Chest No", 25, "C"}, {"Name", 65, "L"},
		{"Mark 1", 20, "C"}, {"Mark 2", 20, "C"}, {"Mark 3", 20, "C"}, {"Total", 20, "C"},
	}
	rows := make([][]string, 0, len(entries))
	for i, d := range entries {
		chest, name := entrantName(d)
		rows = append(rows, []string{strconv.Itoa(i + 1), chest, name})
	}
	s.table(cols, rows)
	s.signatures("Judge 1", "Judge 2", "Judge 3")
	return s.write(w)
}

// CallSheet lists entrants for the stage manager with their attendance.
func CallSheet(w io.Writer, festival string, event models.Event, entries []models.ParticipationDetail) error {
	s := newSheet(event.Name + " call sheet")
	s.heading(festival, event.Name+" - Call sheet", eventSubtitle(event))

	cols := []column{
		{"#", 10, "C"}, {"Chest No", 25, "C"}, {"Name", 70, "L"}, {"Team", 45, "L"}, {"Attendance", 30, "C"},
	}
	rows := make([][]string, 0, len(entries))
	for i, d := range entries {
		chest, name := entrantName(d)
		rows = append(rows, []string{strconv.Itoa(i + 1), chest, name, d.TeamName, string(d.Attendance)})
	}
	s.table(cols, rows)
	s.signatures("Stage manager")
	return s.write(w)
}

// ScoreReport prints the team leaderboard with raw, penalty and adjusted totals.
func ScoreReport(w io.Writer, festival string, teams []scoring.TeamStanding, champions []scoring.SectionChampions) error {
	s := newSheet(festival + " score report")
	s.heading(festival, "Team standings", "")

	cols := []column{
		{"Rank", 15, "C"}, {"Team", 55, "L"}, {"Raw", 22, "R"}, {"Penalty", 22, "R"},
		{"Adjusted", 22, "R"}, {"On stage", 22, "R"}, {"Off stage", 22, "R"},
	}
	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, []string{
			strconv.Itoa(t.Rank), t.TeamName, strconv.Itoa(t.Raw), strconv.Itoa(t.Penalty),
			strconv.Itoa(t.Adjusted), strconv.Itoa(t.OnStage), strconv.Itoa(t.OffStage),
		})
	}
	s.table(cols, rows)

	if len(champions) > 0 {
		s.pdf.Ln(8)
		s.pdf.SetFont(s.family, "B", 13)
		s.pdf.CellFormat(0, 7, "Section champions", "", 1, "L", false, 0, "")
		s.pdf.Ln(2)
		champCols := []column{{"Section", 30, "L"}, {"Award", 25, "L"}, {"Name", 70, "L"}, {"Team", 35, "L"}, {"Points", 20, "R"}}
		champRows := make([][]string, 0, len(champions)*2)
		for _, c := range champions {
			champRows = append(champRows, awardCells(c.Section, "Kala", c.Primary), awardCells(c.Section, "Sargga", c.Secondary))
		}
		s.table(champCols, champRows)
	}
	return s.write(w)
}

func awardCells(section models.Section, title string, a *scoring.Award) []string {
	if a == nil {
		return []string{SectionLabel(section), title, "not awarded", "", ""}
	}
	return []string{SectionLabel(section), title, a.Name, a.TeamName, strconv.Itoa(a.Total)}
}
