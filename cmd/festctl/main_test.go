package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintChampions(t *testing.T) {
	var buf bytes.Buffer
	err := printChampions(&buf, []scoring.SectionChampions{
		{
			Section: models.SectionSenior,
			Primary: &scoring.Award{StudentID: 1, Name: "Asha", ChestNumber: "101", TeamName: "Green", Total: 30, QualifyingWins: 2},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Asha")
	assert.Contains(t, lines[1], "30")
	assert.Contains(t, lines[2], "Sargga")
	assert.Contains(t, lines[2], "not awarded")
}

func TestAppRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run([]string{"festctl", "migrate"})
	assert.Error(t, err)
}
