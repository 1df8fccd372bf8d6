package recovery

import (
	"testing"

	"github.com/dekarrin/cpctplus/cactus"
	"github.com/stretchr/testify/assert"
)

func TestCompatible_SamePStackAndLaidxAndShape(t *testing.T) {
	a := startNode(cactus.FromSlice([]int{0, 1}), 3)
	b := startNode(cactus.FromSlice([]int{0, 1}), 3)
	assert.True(t, compatible(a, b))
}

func TestCompatible_DifferentLaidx(t *testing.T) {
	a := startNode(cactus.FromSlice([]int{0, 1}), 3)
	b := startNode(cactus.FromSlice([]int{0, 1}), 4)
	assert.False(t, compatible(a, b))
}

func TestCompatible_DifferentPStack(t *testing.T) {
	a := startNode(cactus.FromSlice([]int{0, 1}), 3)
	b := startNode(cactus.FromSlice([]int{0, 2}), 3)
	assert.False(t, compatible(a, b))
}

func TestCompatible_DeleteTailMismatch(t *testing.T) {
	pstack := cactus.FromSlice([]int{0, 1})
	a := startNode(pstack, 3)
	a.Repairs = a.Repairs.Child(plainRepair(Repair{Kind: RepairDelete}))
	b := startNode(pstack, 3)
	b.Repairs = b.Repairs.Child(plainRepair(Repair{Kind: RepairInsert}))
	assert.False(t, compatible(a, b))
}

func TestCompatible_TrailingShiftCountMismatch(t *testing.T) {
	pstack := cactus.FromSlice([]int{0, 1})
	a := startNode(pstack, 3)
	a.Repairs = a.Repairs.Child(plainRepair(Repair{Kind: RepairShift}))
	b := startNode(pstack, 3)
	b.Repairs = b.Repairs.Child(plainRepair(Repair{Kind: RepairShift}))
	b.Repairs = b.Repairs.Child(plainRepair(Repair{Kind: RepairShift}))
	assert.False(t, compatible(a, b))
}

func TestMergeInto_PlainBecomesMerged(t *testing.T) {
	pstack := cactus.FromSlice([]int{0, 1})
	old := startNode(pstack, 3)
	old.Repairs = old.Repairs.Child(plainRepair(Repair{Kind: RepairInsert, Token: 7}))

	newcomer := startNode(pstack, 3)
	newcomer.Repairs = newcomer.Repairs.Child(plainRepair(Repair{Kind: RepairShift}))

	mergeInto(old, newcomer)

	top, ok := old.Repairs.Val()
	assert.True(t, ok)
	assert.Equal(t, ormMerged, top.kind)
	assert.Equal(t, RepairInsert, top.repair.Kind)
	assert.Len(t, top.alternates, 1)
	assert.Same(t, newcomer.Repairs, top.alternates[0])
}

func TestMergeInto_MergedAccumulatesAlternates(t *testing.T) {
	pstack := cactus.FromSlice([]int{0, 1})
	old := startNode(pstack, 3)
	old.Repairs = old.Repairs.Child(plainRepair(Repair{Kind: RepairInsert, Token: 7}))

	first := startNode(pstack, 3)
	first.Repairs = first.Repairs.Child(plainRepair(Repair{Kind: RepairShift}))
	mergeInto(old, first)

	second := startNode(pstack, 3)
	second.Repairs = second.Repairs.Child(plainRepair(Repair{Kind: RepairDelete}))
	mergeInto(old, second)

	top, _ := old.Repairs.Val()
	assert.Len(t, top.alternates, 2)
	assert.Same(t, first.Repairs, top.alternates[0])
	assert.Same(t, second.Repairs, top.alternates[1])
}
