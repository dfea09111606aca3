package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/artsfest/models"
)

func recordWin(t *testing.T, f *festival, studentID, eventID int, pos models.Position, g models.PerformanceGrade) {
	t.Helper()
	ctx := context.Background()
	p, err := f.participation.Register(ctx, admin, studentID, eventID)
	require.NoError(t, err)
	_, err = f.results.RecordResult(ctx, p.ID, ResultInput{Position: posPtr(pos), Grade: gradePtr(g)})
	require.NoError(t, err)
}

func TestStandingsVisibility(t *testing.T) {
	ctx := context.Background()
	f := seedFestival(t)

	_, err := f.standings.TeamLeaderboard(ctx, Actor{}, nil)
	assert.ErrorIs(t, err, ErrResultsNotPublished)
	_, err = f.standings.Champions(ctx, leaderOf(f.green.ID))
	assert.ErrorIs(t, err, ErrResultsNotPublished)

	board, err := f.standings.TeamLeaderboard(ctx, admin, nil)
	require.NoError(t, err)
	assert.Len(t, board, 2, "teams without results are listed")

	_, err = f.config.Set(ctx, models.ConfigResultsPublished, "true")
	require.NoError(t, err)
	_, err = f.standings.TeamLeaderboard(ctx, Actor{}, nil)
	assert.NoError(t, err)
}

func TestTeamLeaderboardAppliesPenalty(t *testing.T) {
	ctx := context.Background()
	f := seedFestival(t)

	recordWin(t, f, f.asha.ID, f.solo.ID, models.PositionFirst, models.PerformanceA)   // Green 15
	recordWin(t, f, f.bilal.ID, f.solo.ID, models.PositionSecond, models.PerformanceB) // Red 10
	_, err := f.teams.UpdatePenalty(ctx, admin, f.green.ID, 20)
	require.NoError(t, err)

	board, err := f.standings.TeamLeaderboard(ctx, admin, nil)
	require.NoError(t, err)
	require.Len(t, board, 2)

	assert.Equal(t, "Red", board[0].TeamName)
	assert.Equal(t, 10, board[0].Adjusted)
	assert.Equal(t, "Green", board[1].TeamName)
	assert.Equal(t, 15, board[1].Raw)
	assert.Equal(t, 20, board[1].Penalty)
	assert.Equal(t, 0, board[1].Adjusted, "adjusted total is floored at zero")
}

func TestStudentLeaderboardAndChampions(t *testing.T) {
	ctx := context.Background()
	f := seedFestival(t)

	offStage, err := f.events.CreateEvent(ctx, EventInput{
		Name: "Essay", Code: "off-03", Category: models.CategoryOffStage, GradeTier: models.TierA,
		ApplicableSections: []models.Section{models.SectionSenior}, MaxParticipants: 1,
	})
	require.NoError(t, err)

	recordWin(t, f, f.asha.ID, f.solo.ID, models.PositionFirst, models.PerformanceA)
	recordWin(t, f, f.asha.ID, offStage.ID, models.PositionFirst, models.PerformanceA)
	recordWin(t, f, f.bilal.ID, offStage.ID, models.PositionSecond, models.PerformanceA)

	senior := models.SectionSenior
	board, err := f.standings.StudentLeaderboard(ctx, admin, &senior, 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "Asha", board[0].Name)
	assert.Equal(t, 30, board[0].Total)

	_, err = f.standings.StudentLeaderboard(ctx, admin, sectionPtr(models.SectionGeneral), 0)
	assert.ErrorIs(t, err, ErrInvalidSection)

	champs, err := f.standings.Champions(ctx, admin)
	require.NoError(t, err)
	require.Len(t, champs, 3)
	require.NotNil(t, champs[0].Primary)
	assert.Equal(t, f.asha.ID, champs[0].Primary.StudentID)
	require.NotNil(t, champs[0].Secondary)
	assert.Equal(t, f.bilal.ID, champs[0].Secondary.StudentID)
	assert.Nil(t, champs[1].Primary)
}

func TestTeamLeaderboardByTier(t *testing.T) {
	ctx := context.Background()
	f := seedFestival(t)
	recordWin(t, f, f.asha.ID, f.solo.ID, models.PositionFirst, models.PerformanceA)          // Green senior 15
	recordWin(t, f, f.bilal.ID, f.generalEvent.ID, models.PositionFirst, models.PerformanceB) // Red general 15
	recordWin(t, f, f.asha.ID, f.generalEvent.ID, models.PositionThird, models.PerformanceB)  // Green general 5

	board, err := f.standings.TeamLeaderboard(ctx, admin, sectionPtr(models.SectionGeneral))
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "Red", board[0].TeamName)
	assert.Equal(t, 15, board[0].Tiers.General)

	board, err = f.standings.TeamLeaderboard(ctx, admin, nil)
	require.NoError(t, err)
	assert.Equal(t, "Green", board[0].TeamName)

	_, err = f.standings.TeamLeaderboard(ctx, admin, sectionPtr("seniors"))
	assert.ErrorIs(t, err, ErrInvalidEventSection)
}

func TestSecondaryAwardIncludesStudentsWithoutResults(t *testing.T) {
	ctx := context.Background()
	f := seedFestival(t)

	_, err := f.participation.Register(ctx, admin, f.bilal.ID, f.solo.ID)
	require.NoError(t, err)

	champs, err := f.standings.Champions(ctx, admin)
	require.NoError(t, err)
	require.NotNil(t, champs[0].Secondary)
	assert.Equal(t, f.bilal.ID, champs[0].Secondary.StudentID)
	assert.Zero(t, champs[0].Secondary.Total)
	assert.Nil(t, champs[0].Primary)
}

func sectionPtr(s models.Section) *models.Section { return &s }

func TestEventResultsOrderedByPosition(t *testing.T) {
	ctx := context.Background()
	f := seedFestival(t)
	recordWin(t, f, f.bilal.ID, f.generalEvent.ID, models.PositionSecond, models.PerformanceB)
	recordWin(t, f, f.asha.ID, f.generalEvent.ID, models.PositionFirst, models.PerformanceA)

	res, err := f.standings.EventResults(ctx, admin, f.generalEvent.ID)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, f.asha.ID, *res.Entries[0].StudentID)

	_, err = f.standings.EventResults(ctx, admin, 9999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestOverview(t *testing.T) {
	ctx := context.Background()
	f := seedFestival(t)
	recordWin(t, f, f.asha.ID, f.solo.ID, models.PositionFirst, models.PerformanceA)

	ov, err := f.standings.Overview(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, "Arts Festival", ov.FestivalName)
	assert.Equal(t, models.DashboardStats{
		TeamsTotal: 2, StudentsTotal: 2, EventsTotal: 4, ParticipationsTotal: 1, ResultsDeclared: 1,
	}, ov.Stats)
	assert.Equal(t, "Green", ov.Teams[0].TeamName)
	assert.Len(t, ov.TopStudents, 1)

	t.Run("a failed read aborts the view", func(t *testing.T) {
		f.store.failListDetails = errors.New("connection reset")
		defer func() { f.store.failListDetails = nil }()
		ov, err := f.standings.Overview(ctx, admin)
		assert.Error(t, err)
		assert.Nil(t, ov)
	})
}

func TestExports(t *testing.T) {
	ctx := context.Background()
	f := seedFestival(t)
	recordWin(t, f, f.asha.ID, f.solo.ID, models.PositionFirst, models.PerformanceA)

	var buf bytes.Buffer
	require.NoError(t, f.exports.StandingsWorkbook(ctx, &buf))
	assert.NotZero(t, buf.Len())

	buf.Reset()
	require.NoError(t, f.exports.CallSheet(ctx, &buf, f.solo.ID))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, f.exports.JudgmentSheet(ctx, &buf, f.solo.ID))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, f.exports.ScoreReport(ctx, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, f.exports.StandingsChart(ctx, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.ErrorIs(t, f.exports.CallSheet(ctx, &buf, 9999), ErrEventNotFound)
}
