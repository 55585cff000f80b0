package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnforceTimeSlot(t *testing.T) {
	p, idx := twoBlockInstance()
	fm := newFakeModel()
	vars := Build(fm, p, idx)

	q := Query{Kind: EnforceTimeSlot, Course: 0, Week: 0, Day: 0, PeriodStart: 1}
	c := Apply(fm, p, idx, vars, q)
	require.NotNil(t, c)

	fc := c.(*fakeConstraint)
	assert.Equal(t, Equal, fc.sense)
	assert.Equal(t, 1.0, fc.rhs)
	assert.NotEmpty(t, fc.terms)
}

func TestApplyVetoTimeSlotAcrossAllWeeksWhenOmitted(t *testing.T) {
	p, idx := twoBlockInstance()
	fm := newFakeModel()
	vars := Build(fm, p, idx)

	q := Query{Kind: VetoTimeSlot, Course: 0, Week: -1, Day: 0, PeriodStart: 1}
	c := Apply(fm, p, idx, vars, q).(*fakeConstraint)
	assert.Equal(t, Equal, c.sense)
	assert.Equal(t, 0.0, c.rhs)

	// Spans both blocks since week is omitted.
	var expected []Var
	for block := 1; block <= 2; block++ {
		for _, tp := range idx.ByCourseBlockDay[[3]int{0, block, 0}] {
			if tp.Period == 1 {
				expected = append(expected, vars.X[tp])
			}
		}
	}
	assert.Equal(t, varSet(expected), termVarSet(c.terms))
}

func TestApplyVetoDayCoversBothBlocks(t *testing.T) {
	p, idx := twoBlockInstance()
	fm := newFakeModel()
	vars := Build(fm, p, idx)

	q := Query{Kind: VetoDay, Course: 0, Day: 0}
	c := Apply(fm, p, idx, vars, q).(*fakeConstraint)
	assert.Equal(t, Equal, c.sense)
	assert.Equal(t, 0.0, c.rhs)

	var expected []Var
	for block := 1; block <= 2; block++ {
		for _, tp := range idx.ByCourseBlockDay[[3]int{0, block, 0}] {
			expected = append(expected, vars.X[tp])
		}
	}
	assert.Equal(t, varSet(expected), termVarSet(c.terms))
}

func TestApplyEnforceRoom(t *testing.T) {
	p, idx := twoBlockInstance()
	fm := newFakeModel()
	vars := Build(fm, p, idx)

	q := Query{Kind: EnforceRoom, Course: 0, Room: 0}
	c := Apply(fm, p, idx, vars, q).(*fakeConstraint)
	assert.Equal(t, GreaterThanOrEqual, c.sense)
	assert.Equal(t, 1.0, c.rhs)
	assert.NotEmpty(t, c.terms)
}

func TestMinimalityBuildsBoundConstraint(t *testing.T) {
	fm := newFakeModel()
	v1, v2 := fm.NewBinary(), fm.NewBinary()
	terms := []ObjectiveTerm{{Coef: 2, Var: v1}, {Coef: 3, Var: v2}}

	c := Minimality(fm, terms, 10.0).(*fakeConstraint)
	assert.Equal(t, LessThanOrEqual, c.sense)
	assert.Equal(t, 10.0, c.rhs)
	require.Len(t, c.terms, 2)
	assert.Equal(t, 2.0, c.terms[0].coef)
	assert.Equal(t, 3.0, c.terms[1].coef)
}

func TestTuplesAtAnyRoomMatchesOnlyRequestedPeriod(t *testing.T) {
	p, idx := twoBlockInstance()
	fm := newFakeModel()
	vars := Build(fm, p, idx)

	out := tuplesAtAnyRoom(idx, vars, 0, 1, 0, 1)
	for _, tp := range idx.ByCourseBlockDay[[3]int{0, 1, 0}] {
		if tp.Period == 1 {
			assert.Contains(t, out, vars.X[tp])
		}
	}
	// Never includes a tuple for a different period.
	for _, v := range out {
		found := false
		for _, tp := range idx.ByCourseBlockDay[[3]int{0, 1, 0}] {
			if tp.Period == 1 && vars.X[tp] == v {
				found = true
			}
		}
		assert.True(t, found)
	}
}
