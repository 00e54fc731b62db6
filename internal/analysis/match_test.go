package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchIdentifiers(t *testing.T) {
	pre := mustDataset(t, []string{"Pers No", "Total Points"},
		cells{num(1001), num(5)},
		cells{num(1002), num(6)},
		cells{num(1003), num(7)},
	)
	post := mustDataset(t, []string{"Pers No", "Total Points"},
		cells{num(1002), num(8)},
		cells{num(1004), num(9)},
		cells{num(1001), num(6)},
	)

	m, err := MatchIdentifiers(pre, post, "Pers No", "Pers No")
	require.NoError(t, err)

	assert.Equal(t, []string{"1001", "1002"}, m.Inner)
	assert.Equal(t, []string{"1003"}, m.OnlyPre)
	assert.Equal(t, []string{"1004"}, m.OnlyPost)

	assert.Equal(t, 0, m.PreRows["1001"])
	assert.Equal(t, 2, m.PostRows["1001"])
}

func TestMatchIdentifiersTextVersusNumber(t *testing.T) {
	// One export stores the identifier as text, the other as a number
	pre := mustDataset(t, []string{"Pers No"},
		cells{str(" 1024 ")},
	)
	post := mustDataset(t, []string{"Pers No"},
		cells{num(1024)},
	)

	m, err := MatchIdentifiers(pre, post, "Pers No", "Pers No")
	require.NoError(t, err)
	assert.Equal(t, []string{"1024"}, m.Inner)
	assert.Empty(t, m.OnlyPre)
	assert.Empty(t, m.OnlyPost)
}

func TestMatchIdentifiersDuplicatesFirstWin(t *testing.T) {
	pre := mustDataset(t, []string{"Pers No", "Total Points"},
		cells{num(1001), num(3)},
		cells{num(1001), num(9)},
	)
	post := mustDataset(t, []string{"Pers No", "Total Points"},
		cells{num(1001), num(5)},
	)

	m, err := MatchIdentifiers(pre, post, "Pers No", "Pers No")
	require.NoError(t, err)
	assert.Equal(t, []string{"1001"}, m.Inner)
	assert.Equal(t, 0, m.PreRows["1001"])
}

func TestMatchIdentifiersSkipsBlankIDs(t *testing.T) {
	pre := mustDataset(t, []string{"Pers No"},
		cells{null()},
		cells{str("   ")},
		cells{num(1001)},
	)
	post := mustDataset(t, []string{"Pers No"},
		cells{num(1001)},
		cells{null()},
	)

	m, err := MatchIdentifiers(pre, post, "Pers No", "Pers No")
	require.NoError(t, err)
	assert.Equal(t, []string{"1001"}, m.Inner)
	assert.Empty(t, m.OnlyPre)
	assert.Empty(t, m.OnlyPost)
}

func TestMatchIdentifiersMissingColumn(t *testing.T) {
	pre := mustDataset(t, []string{"Pers No"})
	post := mustDataset(t, []string{"Other"})

	_, err := MatchIdentifiers(pre, post, "Pers No", "Pers No")
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))

	_, err = MatchIdentifiers(pre, post, "", "Pers No")
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}
