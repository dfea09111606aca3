package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/artsfest/models"
)

func TestTeamLeaderboard(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Name: "Red", Penalty: 30},
		{ID: 2, Name: "Blue", Penalty: 150},
		{ID: 3, Name: "Green"},
		{ID: 4, Name: "Amber"},
	}
	s := student(1, "Anu", models.SectionSenior, 1)
	on := ev(1, models.CategoryOnStage, models.TierA, models.SectionSenior)
	gen := ev(2, models.CategoryOffStage, models.TierC, models.SectionGeneral)

	rows := []models.ParticipationDetail{
		row(s, on, pos(models.PositionFirst), nil), // 15 to Red
		teamRow(1, gen, 105),
		teamRow(2, gen, 120),
		teamRow(3, gen, 90),
	}

	got := TeamLeaderboard(teams, rows)
	require.Len(t, got, 4)

	// Red (120-30) ties Green on 90; Green sorts first by name.
	assert.Equal(t, "Green", got[0].TeamName)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, "Red", got[1].TeamName)
	assert.Equal(t, 1, got[1].Rank)
	assert.Equal(t, 120, got[1].Raw)
	assert.Equal(t, 30, got[1].Penalty)
	assert.Equal(t, 90, got[1].Adjusted)
	assert.Equal(t, 15, got[1].OnStage)
	assert.Equal(t, 105, got[1].OffStage)
	assert.Equal(t, TierTotals{Senior: 15, General: 105}, got[1].Tiers)

	// Amber and Blue both sit on zero; Blue's penalty exceeds its total.
	assert.Equal(t, "Amber", got[2].TeamName)
	assert.Equal(t, 3, got[2].Rank)
	assert.Equal(t, "Blue", got[3].TeamName)
	assert.Equal(t, 0, got[3].Adjusted)
	assert.Equal(t, 120, got[3].Raw)
	assert.Equal(t, 3, got[3].Rank)
}

func TestRankByTier(t *testing.T) {
	teams := []models.Team{{ID: 1, Name: "Red"}, {ID: 2, Name: "Blue"}}
	s := student(1, "Anu", models.SectionSenior, 1)
	senior := ev(1, models.CategoryOnStage, models.TierA, models.SectionSenior)
	gen := ev(2, models.CategoryOffStage, models.TierC, models.SectionGeneral)

	board := TeamLeaderboard(teams, []models.ParticipationDetail{
		row(s, senior, pos(models.PositionFirst), nil), // 15 to Red
		teamRow(2, gen, 20),
	})
	require.Equal(t, "Blue", board[0].TeamName)

	bySenior := RankByTier(board, models.SectionSenior)
	assert.Equal(t, "Red", bySenior[0].TeamName)
	assert.Equal(t, 1, bySenior[0].Rank)
	assert.Equal(t, 2, bySenior[1].Rank)
	assert.Equal(t, "Blue", board[0].TeamName, "input board is left untouched")

	byGeneral := RankByTier(board, models.SectionGeneral)
	assert.Equal(t, "Blue", byGeneral[0].TeamName)
	assert.Equal(t, 20, byGeneral[0].Tiers.Get(models.SectionGeneral))

	byFoundation := RankByTier(board, models.SectionFoundation)
	assert.Equal(t, 1, byFoundation[0].Rank)
	assert.Equal(t, 1, byFoundation[1].Rank, "all-zero column ties")
}

func TestStudentLeaderboard(t *testing.T) {
	s1 := student(1, "Anu", models.SectionSenior, 1)
	s2 := student(2, "Biju", models.SectionJunior, 2)
	s3 := student(3, "Chitra", models.SectionSenior, 2)
	a := ev(1, models.CategoryOnStage, models.TierA, models.SectionSenior, models.SectionJunior)
	b := ev(2, models.CategoryOffStage, models.TierB, models.SectionSenior)
	group := ev(3, models.CategoryOnStage, models.TierC, models.SectionSenior)

	rows := []models.ParticipationDetail{
		row(s1, a, pos(models.PositionSecond), nil), // 10
		row(s1, b, pos(models.PositionFirst), nil),  // 10
		row(s1, group, pos(models.PositionFirst), nil),
		row(s2, a, pos(models.PositionFirst), nil), // 15
		row(s3, b, pos(models.PositionThird), nil), // 3
	}

	all := StudentLeaderboard(rows, nil)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].StudentID)
	assert.Equal(t, 20, all[0].Total)
	assert.Equal(t, 1, all[0].Firsts)
	assert.Equal(t, 1, all[0].Seconds)
	assert.Equal(t, 2, all[1].StudentID)
	assert.Equal(t, 3, all[2].Rank)

	senior := models.SectionSenior
	seniors := StudentLeaderboard(rows, &senior)
	require.Len(t, seniors, 2)
	assert.Equal(t, "Anu", seniors[0].Name)
	assert.Equal(t, "Chitra", seniors[1].Name)
}

func TestStudentLeaderboardTieOrder(t *testing.T) {
	s1 := student(7, "Zara", models.SectionSenior, 1)
	s2 := student(3, "Anu", models.SectionSenior, 1)
	a := ev(1, models.CategoryOnStage, models.TierA, models.SectionSenior)

	rows := []models.ParticipationDetail{
		row(s1, a, pos(models.PositionFirst), nil),
		row(s2, a, pos(models.PositionFirst), nil),
	}

	got := StudentLeaderboard(rows, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "Anu", got[0].Name)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 1, got[1].Rank)
}
