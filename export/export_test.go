package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/scoring"
)

func sampleTeams() []scoring.TeamStanding {
	return []scoring.TeamStanding{
		{Rank: 1, TeamID: 1, TeamName: "Green", Color: "#22c55e", Raw: 95, Penalty: 5, Adjusted: 90},
		{Rank: 2, TeamID: 2, TeamName: "Red", Raw: 40, Adjusted: 40},
	}
}

func sampleChampions() []scoring.SectionChampions {
	return []scoring.SectionChampions{
		{
			Section: models.SectionSenior,
			Primary: &scoring.Award{StudentID: 7, Name: "Asha", ChestNumber: "101", TeamName: "Green", Total: 45, QualifyingWins: 2},
		},
	}
}

func TestStandingsWorkbook(t *testing.T) {
	students := []scoring.StudentStanding{
		{Rank: 1, StudentID: 7, Name: "Asha", ChestNumber: "101", Section: models.SectionSenior, TeamName: "Green",
			Tally: scoring.Tally{Total: 45, Firsts: 3}},
	}

	var buf bytes.Buffer
	require.NoError(t, StandingsWorkbook(&buf, sampleTeams(), students, sampleChampions()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetTeams, sheetStudents, sheetChampions}, f.GetSheetList())

	v, err := f.GetCellValue(sheetTeams, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Green", v)
	v, err = f.GetCellValue(sheetTeams, "E2")
	require.NoError(t, err)
	assert.Equal(t, "90", v)

	v, err = f.GetCellValue(sheetStudents, "D2")
	require.NoError(t, err)
	assert.Equal(t, "Senior", v)

	v, err = f.GetCellValue(sheetChampions, "D3")
	require.NoError(t, err)
	assert.Equal(t, "not awarded", v)
}

func TestPDFSheets(t *testing.T) {
	stu := &models.Student{ID: 7, Name: "Asha", ChestNumber: "101", Section: models.SectionSenior}
	event := models.Event{ID: 3, Name: "Light Music", Code: "ON-01", Category: models.CategoryOnStage, GradeTier: models.TierA}
	entries := []models.ParticipationDetail{
		{Participation: models.Participation{ID: 1, Attendance: models.AttendancePresent}, Event: event, Student: stu, TeamName: "Green"},
		{Participation: models.Participation{ID: 2, Attendance: models.AttendancePending}, Event: event, TeamName: "Red"},
	}

	tests := []struct {
		name   string
		render func(*bytes.Buffer) error
	}{
		{"judgment sheet", func(b *bytes.Buffer) error { return JudgmentSheet(b, "Arts Festival", event, entries) }},
		{"call sheet", func(b *bytes.Buffer) error { return CallSheet(b, "Arts Festival", event, entries) }},
		{"score report", func(b *bytes.Buffer) error { return ScoreReport(b, "Arts Festival", sampleTeams(), sampleChampions()) }},
		{"empty call sheet", func(b *bytes.Buffer) error { return CallSheet(b, "Arts Festival", event, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.render(&buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestSetUnicodeFont(t *testing.T) {
	err := SetUnicodeFont(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)

	require.NoError(t, SetUnicodeFont(""))
	var buf bytes.Buffer
	require.NoError(t, CallSheet(&buf, "Kalolsavam", models.Event{Name: "Mono Act", Code: "ON-09"}, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "core font fallback still renders")
}

func TestStandingsChart(t *testing.T) {
	pngMagic := []byte("\x89PNG")

	var buf bytes.Buffer
	require.NoError(t, StandingsChart(&buf, sampleTeams()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	buf.Reset()
	require.NoError(t, StandingsChart(&buf, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestSectionLabel(t *testing.T) {
	assert.Equal(t, "Sub-Junior", SectionLabel(models.SectionSubJunior))
	assert.Equal(t, "mystery", SectionLabel(models.Section("mystery")))
}
