package calendar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCycleIndexMatchesFromCycle(t *testing.T) {
	for i := 0; i < CycleLength; i++ {
		pair := FromCycle(i)
		got, err := CycleIndex(pair.Stem, pair.Branch)
		require.NoError(t, err)
		require.Equal(t, i, got)
		require.Equal(t, int(pair.Stem), got%StemCount)
		require.Equal(t, int(pair.Branch), got%BranchCount)
	}
}

func TestCycleIndexRejectsMixedPolarity(t *testing.T) {
	_, err := CycleIndex(Stem(0), Branch(1))
	require.Error(t, err)

	_, err = CycleIndex(Stem(10), Branch(0))
	require.Error(t, err)
}

func TestFromCycleWrapsNegative(t *testing.T) {
	require.Equal(t, FromCycle(59), FromCycle(-1))
	require.Equal(t, "gui-hai", FromCycle(-1).String())
	require.Equal(t, "jia-zi", FromCycle(60).String())
}

func TestBranchOffsetWraps(t *testing.T) {
	require.Equal(t, Branch(11), Branch(0).Offset(-1))
	require.Equal(t, Branch(1), Branch(11).Offset(2))
	require.Equal(t, Branch(5), Branch(5).Offset(-24))
}

func TestStemBranchJSONUsesNames(t *testing.T) {
	raw, err := json.Marshal(FromCycle(6))
	require.NoError(t, err)
	require.JSONEq(t, `{"stem":"geng","branch":"wu"}`, string(raw))

	var back StemBranch
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, FromCycle(6), back)

	require.Error(t, json.Unmarshal([]byte(`{"stem":"alpha","branch":"wu"}`), &back))
}
