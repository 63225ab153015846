package assembler_test

import (
	"testing"

	"github.com/cryptape/kabletop-go-sdk/assembler"
	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/stretchr/testify/require"
)

func TestBuilderDedupesCellDeps(t *testing.T) {
	dep := chain.CellDep{OutPoint: chain.OutPoint{Index: 1}}
	b := assembler.NewBuilder().AddCellDep(dep).AddCellDep(dep)
	require.Len(t, b.Transaction().CellDeps, 1)
}

func TestBuilderDedupesHeaderDeps(t *testing.T) {
	var h codec.Blake256
	h[0] = 7
	b := assembler.NewBuilder().AddHeaderDep(h).AddHeaderDep(h)
	require.Len(t, b.Transaction().HeaderDeps, 1)
}

func TestCapacityExactMinimumGrowsWithDataLen(t *testing.T) {
	small := assembler.CapacityExactMinimum(1, 20, 0)
	large := assembler.CapacityExactMinimum(100, 20, 0)
	require.Less(t, small, large)
}

func TestSumOutputCapacity(t *testing.T) {
	b := assembler.NewBuilder().
		AddOutput(chain.CellOutput{Capacity: 100}, nil).
		AddOutput(chain.CellOutput{Capacity: 250}, nil)
	require.Equal(t, uint64(350), assembler.SumOutputCapacity(b.Transaction()))
}

func TestConfigCellCapacityExact(t *testing.T) {
	tmpl := assembler.ScriptTemplates{}
	cfg := codec.NFTConfig{
		PackagePrice:    10,
		PackageCapacity: 1,
		Table:           []codec.NFTEntry{{Rate: 100}},
	}
	out, data := assembler.ConfigCell(tmpl, codec.Blake160{}, cfg)
	want := assembler.CapacityExactMinimum(len(data), len(out.Lock.Args), len(out.Type.Args))
	require.Equal(t, want, out.Capacity)
}

func TestSettlementOutputsAwardsBet(t *testing.T) {
	tmpl := assembler.ScriptTemplates{}
	outs, _ := assembler.SettlementOutputs(tmpl, codec.Blake160{1}, codec.Blake160{2}, 500, 1500, true)
	require.Equal(t, uint64(2000), outs[0].Capacity)
	require.Equal(t, uint64(500), outs[1].Capacity)
}
