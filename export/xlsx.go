// Package export renders standings and event sheets as XLSX, PDF and PNG.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/scoring"
)

const (
	sheetTeams     = "Teams"
	sheetStudents  = "Students"
	sheetChampions = "Champions"
)

var teamHeader = []interface{}{
	"Rank", "Team", "Raw", "Penalty", "Adjusted", "1st", "2nd", "3rd",
	"On stage", "Off stage", "Senior", "Junior", "Sub-Junior", "General", "Foundation",
}

var studentHeader = []interface{}{"Rank", "Chest No", "Name", "Section", "Team", "Points", "1st", "2nd", "3rd"}

var championHeader = []interface{}{"Section", "Award", "Chest No", "Name", "Team", "Points", "Qualifying wins"}

// StandingsWorkbook writes a workbook with one sheet per board.
func StandingsWorkbook(w io.Writer, teams []scoring.TeamStanding, students []scoring.StudentStanding, champions []scoring.SectionChampions) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTeams); err != nil {
		return err
	}
	for _, name := range []string{sheetStudents, sheetChampions} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	teamRows := make([][]interface{}, 0, len(teams))
	for _, t := range teams {
		teamRows = append(teamRows, []interface{}{
			t.Rank, t.TeamName, t.Raw, t.Penalty, t.Adjusted, t.Firsts, t.Seconds, t.Thirds,
			t.OnStage, t.OffStage,
			t.Tiers.Senior, t.Tiers.Junior, t.Tiers.SubJunior, t.Tiers.General, t.Tiers.Foundation,
		})
	}
	if err := writeSheet(f, sheetTeams, bold, teamHeader, teamRows); err != nil {
		return err
	}

	studentRows := make([][]interface{}, 0, len(students))
	for _, s := range students {
		studentRows = append(studentRows, []interface{}{
			s.Rank, s.ChestNumber, s.Name, SectionLabel(s.Section), s.TeamName, s.Total, s.Firsts, s.Seconds, s.Thirds,
		})
	}
	if err := writeSheet(f, sheetStudents, bold, studentHeader, studentRows); err != nil {
		return err
	}

	champRows := make([][]interface{}, 0, len(champions)*2)
	for _, c := range champions {
		champRows = append(champRows, awardRow(c.Section, "Kala", c.Primary))
		champRows = append(champRows, awardRow(c.Section, "Sargga", c.Secondary))
	}
	if err := writeSheet(f, sheetChampions, bold, championHeader, champRows); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func awardRow(section models.Section, title string, a *scoring.Award) []interface{} {
	if a == nil {
		return []interface{}{SectionLabel(section), title, "", "not awarded", "", "", ""}
	}
	return []interface{}{SectionLabel(section), title, a.ChestNumber, a.Name, a.TeamName, a.Total, a.QualifyingWins}
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", lastCol, 14)
}

// SectionLabel is the display name of a section.
func SectionLabel(s models.Section) string {
	switch s {
	case models.SectionSenior:
		return "Senior"
	case models.SectionJunior:
		return "Junior"
	case models.SectionSubJunior:
		return "Sub-Junior"
	case models.SectionGeneral:
		return "General"
	case models.SectionFoundation:
		return "Foundation"
	}
	return string(s)
}
