package reveal_test

import (
	"testing"

	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/reveal"
	"github.com/stretchr/testify/require"
)

// TestCollectionScenarioF follows spec Scenario F: an all-zero block
// hash always lotteries to 0, which is below the first table entry's
// rate, so package_count=1 always reveals that entry.
func TestCollectionScenarioF(t *testing.T) {
	a := codec.Blake160{0xaa}
	b := codec.Blake160{0xbb}
	table := []codec.NFTEntry{{ID: a, Rate: 100}, {ID: b, Rate: 200}}

	picks, err := reveal.Collection(codec.Blake256{}, table, 1)
	require.NoError(t, err)
	require.Equal(t, []codec.Blake160{a}, picks)
}

func TestCollectionFallsBackToLastEntry(t *testing.T) {
	a := codec.Blake160{0xaa}
	b := codec.Blake160{0xbb}
	table := []codec.NFTEntry{{ID: a, Rate: 10}, {ID: b, Rate: 20}}

	var hash codec.Blake256
	hash[0] = 0xff // lottery = 0xffff, exceeds every rate in the table
	hash[1] = 0xff

	picks, err := reveal.Collection(hash, table, 1)
	require.NoError(t, err)
	require.Equal(t, []codec.Blake160{b}, picks)
}

func TestCollectionEmptyTableFails(t *testing.T) {
	_, err := reveal.Collection(codec.Blake256{}, nil, 1)
	require.Error(t, err)
}
