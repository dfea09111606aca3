package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/artsfest/models"
)

var (
	onA      = ev(1, models.CategoryOnStage, models.TierA, models.SectionSenior)
	offA     = ev(2, models.CategoryOffStage, models.TierA, models.SectionSenior)
	onB      = ev(3, models.CategoryOnStage, models.TierB, models.SectionSenior)
	offB     = ev(4, models.CategoryOffStage, models.TierB, models.SectionSenior)
	onAGen   = ev(5, models.CategoryOnStage, models.TierA, models.SectionGeneral)
	offA2    = ev(6, models.CategoryOffStage, models.TierA, models.SectionSenior)
	groupEvt = ev(7, models.CategoryOnStage, models.TierC, models.SectionSenior)
)

func TestIsQualifyingWin(t *testing.T) {
	s := student(1, "Anu", models.SectionSenior, 10)
	first, a := pos(models.PositionFirst), grade(models.PerformanceA)

	assert.True(t, IsQualifyingWin(row(s, onA, first, a)))
	assert.False(t, IsQualifyingWin(row(s, onA, pos(models.PositionSecond), a)), "second place")
	assert.False(t, IsQualifyingWin(row(s, onA, first, grade(models.PerformanceB))), "grade B")
	assert.False(t, IsQualifyingWin(row(s, onA, first, nil)), "no grade")
	assert.False(t, IsQualifyingWin(row(s, onB, first, a)), "tier B event")
	assert.False(t, IsQualifyingWin(row(s, onAGen, first, a)), "general event")
}

func TestPrimaryRequiresBothCategories(t *testing.T) {
	first, a := pos(models.PositionFirst), grade(models.PerformanceA)
	champ := student(1, "Anu", models.SectionSenior, 10)
	bigScorer := student(2, "Biju", models.SectionSenior, 20)

	rows := []models.ParticipationDetail{
		row(champ, onA, first, a),
		row(champ, offA, first, a),
		// Biju outscores Anu but only wins on stage.
		row(bigScorer, onA, first, a),
		row(bigScorer, onB, first, a),
		row(bigScorer, offB, first, a),
		row(bigScorer, onAGen, first, a),
	}

	got := SelectChampions(rows, models.SectionSenior)

	require.NotNil(t, got.Primary)
	assert.Equal(t, 1, got.Primary.StudentID)
	assert.Equal(t, 30, got.Primary.Total)
	assert.Equal(t, 2, got.Primary.QualifyingWins)

	require.NotNil(t, got.Secondary)
	assert.Equal(t, 2, got.Secondary.StudentID)
	assert.Equal(t, 50, got.Secondary.Total)
}

func TestNoPrimaryWithoutDualQualifier(t *testing.T) {
	first, a := pos(models.PositionFirst), grade(models.PerformanceA)
	s1 := student(1, "Anu", models.SectionSenior, 10)
	s2 := student(2, "Biju", models.SectionSenior, 10)

	rows := []models.ParticipationDetail{
		row(s1, onA, first, a),
		row(s2, offA, pos(models.PositionSecond), a),
	}

	got := SelectChampions(rows, models.SectionSenior)

	assert.Nil(t, got.Primary)
	require.NotNil(t, got.Secondary)
	assert.Equal(t, 1, got.Secondary.StudentID)
}

func TestPrimaryTieBreakByQualifyingWins(t *testing.T) {
	first, a := pos(models.PositionFirst), grade(models.PerformanceA)
	s1 := student(1, "Anu", models.SectionSenior, 10)
	s2 := student(2, "Biju", models.SectionSenior, 20)

	// Both end on 45 points; Biju has three qualifying wins, Anu two.
	rows := []models.ParticipationDetail{
		row(s1, onA, first, a),
		row(s1, offA, first, a),
		row(s1, onB, first, grade(models.PerformanceB)),
		row(s1, onAGen, pos(models.PositionThird), nil),
		row(s2, onA, first, a),
		row(s2, offA, first, a),
		row(s2, offA2, first, a),
	}

	got := SelectChampions(rows, models.SectionSenior)

	require.NotNil(t, got.Primary)
	assert.Equal(t, 45, got.Primary.Total)
	assert.Equal(t, 2, got.Primary.StudentID)
	require.NotNil(t, got.Secondary)
	assert.Equal(t, 1, got.Secondary.StudentID)
	assert.Equal(t, 45, got.Secondary.Total)
}

func TestSecondaryWithSingleQualifier(t *testing.T) {
	first, a := pos(models.PositionFirst), grade(models.PerformanceA)
	champ := student(1, "Anu", models.SectionSenior, 10)
	other := student(2, "Biju", models.SectionSenior, 20)

	rows := []models.ParticipationDetail{
		row(champ, onA, first, a),
		row(champ, offA, first, a),
		row(other, onB, pos(models.PositionThird), nil),
	}

	got := SelectChampions(rows, models.SectionSenior)

	require.NotNil(t, got.Primary)
	require.NotNil(t, got.Secondary)
	assert.Equal(t, 2, got.Secondary.StudentID)
	assert.Equal(t, 0, got.Secondary.QualifyingWins)
	assert.Equal(t, 3, got.Secondary.Total)
}

func TestChampionsIgnoreGroupEventsAndOtherSections(t *testing.T) {
	first, a := pos(models.PositionFirst), grade(models.PerformanceA)
	senior := student(1, "Anu", models.SectionSenior, 10)
	junior := student(2, "Biju", models.SectionJunior, 20)

	rows := []models.ParticipationDetail{
		row(senior, groupEvt, first, a),
		row(junior, onA, first, a),
		row(junior, offA, first, a),
	}

	got := SelectChampions(rows, models.SectionSenior)
	assert.Nil(t, got.Primary)
	assert.Nil(t, got.Secondary, "a student with only group rows is not in the pool")

	all := SelectAllChampions(rows)
	require.Len(t, all, 3)
	assert.Equal(t, models.SectionJunior, all[1].Section)
	require.NotNil(t, all[1].Primary)
	assert.Equal(t, 2, all[1].Primary.StudentID)
	assert.Nil(t, all[2].Primary)
	assert.Nil(t, all[2].Secondary)
}
