package catalog

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitetrack/internal/core"
)

func seedStore(t *testing.T) (*Store, core.MasterCategory, core.MasterActivity, core.MasterSubTask) {
	t.Helper()
	s := NewStore()

	cat, err := s.CreateCategory(core.MasterCategory{Code: "str", Name: "Structural", Order: 1})
	require.NoError(t, err)

	act, err := s.CreateActivity(core.MasterActivity{
		CategoryID:  cat.ID,
		Code:        "conc",
		Name:        "Concreting",
		DefaultUnit: core.UnitCubicMeter,
		Order:       1,
	})
	require.NoError(t, err)

	st, err := s.CreateSubTask(core.MasterSubTask{
		ActivityID:          act.ID,
		Name:                "Pour foundation",
		Unit:                core.UnitCubicMeter,
		DefaultProductivity: 1.5,
		Order:               1,
	})
	require.NoError(t, err)

	return s, cat, act, st
}

func TestStore_CreateCategory(t *testing.T) {
	s := NewStore()

	created, err := s.CreateCategory(core.MasterCategory{Code: "str", Name: "Structural"})
	require.NoError(t, err)
	assert.Equal(t, "STR", created.Code, "code should be normalized to uppercase")
	assert.True(t, created.IsActive, "new nodes start active")
	assert.NotEqual(t, uuid.Nil, created.ID)

	t.Run("duplicate code rejected", func(t *testing.T) {
		_, err := s.CreateCategory(core.MasterCategory{Code: "STR", Name: "Other"})
		var dup *core.DuplicateCodeError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "STR", dup.Code)
	})

	t.Run("duplicate differs only by case", func(t *testing.T) {
		_, err := s.CreateCategory(core.MasterCategory{Code: " str ", Name: "Other"})
		var dup *core.DuplicateCodeError
		require.ErrorAs(t, err, &dup)
	})

	t.Run("invalid node leaves store untouched", func(t *testing.T) {
		before, _, _ := s.Counts()
		_, err := s.CreateCategory(core.MasterCategory{Code: "NEW", Name: ""})
		require.Error(t, err)
		after, _, _ := s.Counts()
		assert.Equal(t, before, after)
	})
}

func TestStore_UpdateCategory(t *testing.T) {
	s, cat, _, _ := seedStore(t)

	updated, err := s.UpdateCategory(cat.ID, core.MasterCategory{
		Code: "STR2", Name: "Structural Works", Order: 5, IsActive: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "STR2", updated.Code)
	assert.Equal(t, "Structural Works", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, cat.ID, updated.ID, "id is immutable")

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.UpdateCategory(uuid.New(), core.MasterCategory{Code: "X", Name: "X"})
		var nf *core.NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("code collision with sibling", func(t *testing.T) {
		other, err := s.CreateCategory(core.MasterCategory{Code: "MEP", Name: "MEP"})
		require.NoError(t, err)
		_, err = s.UpdateCategory(other.ID, core.MasterCategory{Code: "STR2", Name: "MEP"})
		var dup *core.DuplicateCodeError
		require.ErrorAs(t, err, &dup)
	})

	t.Run("keeping own code is not a collision", func(t *testing.T) {
		_, err := s.UpdateCategory(cat.ID, core.MasterCategory{Code: "STR2", Name: "Renamed"})
		assert.NoError(t, err)
	})
}

func TestStore_DeleteCategory(t *testing.T) {
	s, cat, act, st := seedStore(t)

	t.Run("blocked while an active activity remains", func(t *testing.T) {
		err := s.DeleteCategory(cat.ID)
		var dep *core.HasDependentsError
		require.ErrorAs(t, err, &dep)
		assert.Equal(t, "category", dep.Kind)
		assert.Equal(t, 1, dep.Dependents)
	})

	t.Run("inactive activities are swept with the category", func(t *testing.T) {
		act.IsActive = false
		_, err := s.UpdateActivity(act.ID, act)
		require.NoError(t, err)

		require.NoError(t, s.DeleteCategory(cat.ID))

		cats, acts, subs := s.Counts()
		assert.Equal(t, 0, cats)
		assert.Equal(t, 0, acts)
		assert.Equal(t, 0, subs)

		_, err = s.GetSubTask(st.ID)
		var nf *core.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := s.DeleteCategory(uuid.New())
		var nf *core.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

func TestStore_ActivityCRUD(t *testing.T) {
	s, cat, act, st := seedStore(t)

	t.Run("code unique only within the owning category", func(t *testing.T) {
		_, err := s.CreateActivity(core.MasterActivity{
			CategoryID: cat.ID, Code: "CONC", Name: "Again", DefaultUnit: core.UnitCubicMeter,
		})
		var dup *core.DuplicateCodeError
		require.ErrorAs(t, err, &dup)

		other, err := s.CreateCategory(core.MasterCategory{Code: "MEP", Name: "MEP"})
		require.NoError(t, err)
		_, err = s.CreateActivity(core.MasterActivity{
			CategoryID: other.ID, Code: "CONC", Name: "Conduits", DefaultUnit: core.UnitMeter,
		})
		assert.NoError(t, err, "same code under a different category is allowed")
	})

	t.Run("create under missing category", func(t *testing.T) {
		_, err := s.CreateActivity(core.MasterActivity{
			CategoryID: uuid.New(), Code: "X", Name: "X", DefaultUnit: core.UnitItem,
		})
		var nf *core.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "category", nf.Kind)
	})

	t.Run("delete blocked by sub-tasks regardless of their active flag", func(t *testing.T) {
		st.IsActive = false
		_, err := s.UpdateSubTask(st.ID, st)
		require.NoError(t, err)

		err = s.DeleteActivity(act.ID)
		var dep *core.HasDependentsError
		require.ErrorAs(t, err, &dep)
		assert.Equal(t, "activity", dep.Kind)
	})

	t.Run("delete after removing the leaf", func(t *testing.T) {
		require.NoError(t, s.DeleteSubTask(st.ID))
		assert.NoError(t, s.DeleteActivity(act.ID))
	})
}

func TestStore_SubTaskCRUD(t *testing.T) {
	s, _, act, st := seedStore(t)

	t.Run("update replaces mutable fields", func(t *testing.T) {
		upd := st
		upd.Name = "Pour slab"
		upd.DefaultProductivity = 2.5
		upd.Unit = core.UnitSquareMeter
		got, err := s.UpdateSubTask(st.ID, upd)
		require.NoError(t, err)
		assert.Equal(t, "Pour slab", got.Name)
		assert.Equal(t, 2.5, got.DefaultProductivity)
		assert.Equal(t, act.ID, got.ActivityID, "parent is immutable")
	})

	t.Run("create under missing activity", func(t *testing.T) {
		_, err := s.CreateSubTask(core.MasterSubTask{
			ActivityID: uuid.New(), Name: "X", Unit: core.UnitItem,
		})
		var nf *core.NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("delete is final", func(t *testing.T) {
		require.NoError(t, s.DeleteSubTask(st.ID))
		err := s.DeleteSubTask(st.ID)
		var nf *core.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

func TestStore_Hierarchy_Ordering(t *testing.T) {
	s := NewStore()

	// Created out of order on purpose; assembly must sort by Order then code.
	catB, err := s.CreateCategory(core.MasterCategory{Code: "BBB", Name: "B", Order: 2})
	require.NoError(t, err)
	catA, err := s.CreateCategory(core.MasterCategory{Code: "AAA", Name: "A", Order: 1})
	require.NoError(t, err)
	catC, err := s.CreateCategory(core.MasterCategory{Code: "CCC", Name: "C", Order: 1})
	require.NoError(t, err)

	_, err = s.CreateActivity(core.MasterActivity{CategoryID: catA.ID, Code: "A2", Name: "second", DefaultUnit: core.UnitItem, Order: 2})
	require.NoError(t, err)
	_, err = s.CreateActivity(core.MasterActivity{CategoryID: catA.ID, Code: "A1", Name: "first", DefaultUnit: core.UnitItem, Order: 1})
	require.NoError(t, err)

	tree := s.Hierarchy()
	require.Len(t, tree, 3)
	assert.Equal(t, "AAA", tree[0].Code, "order 1 sorts before order 2, code breaks ties")
	assert.Equal(t, "CCC", tree[1].Code)
	assert.Equal(t, "BBB", tree[2].Code)
	_ = catB
	_ = catC

	require.Len(t, tree[0].Activities, 2)
	assert.Equal(t, "A1", tree[0].Activities[0].Code)
	assert.Equal(t, "A2", tree[0].Activities[1].Code)

	t.Run("result is a copy", func(t *testing.T) {
		tree[0].Activities[0].Name = "mutated"
		fresh := s.Hierarchy()
		assert.Equal(t, "first", fresh[0].Activities[0].Name)
	})
}

func TestStore_Restore(t *testing.T) {
	s, _, _, _ := seedStore(t)
	tree := s.Hierarchy()

	fresh := NewStore()
	fresh.Restore(tree)

	cats, acts, subs := fresh.Counts()
	assert.Equal(t, 1, cats)
	assert.Equal(t, 1, acts)
	assert.Equal(t, 1, subs)

	t.Run("nil ids get fresh ones", func(t *testing.T) {
		bare := []core.MasterCategory{{
			Code: "NEW", Name: "New", IsActive: true,
			Activities: []core.MasterActivity{{
				Code: "N1", Name: "n1", DefaultUnit: core.UnitItem, IsActive: true,
				SubTasks: []core.MasterSubTask{{Name: "leaf", Unit: core.UnitItem, IsActive: true}},
			}},
		}}
		st2 := NewStore()
		st2.Restore(bare)
		out := st2.Hierarchy()
		require.Len(t, out, 1)
		assert.NotEqual(t, uuid.Nil, out[0].ID)
		require.Len(t, out[0].Activities, 1)
		assert.Equal(t, out[0].ID, out[0].Activities[0].CategoryID)
	})

	t.Run("restore replaces, not merges", func(t *testing.T) {
		fresh.Restore(nil)
		c, a, st := fresh.Counts()
		if c != 0 || a != 0 || st != 0 {
			t.Errorf("counts after empty restore = %d/%d/%d, want zeros", c, a, st)
		}
	})
}

func TestStore_Getters(t *testing.T) {
	s, cat, act, st := seedStore(t)

	got, err := s.GetSubTask(st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.Name, got.Name)

	gotAct, err := s.GetActivity(act.ID)
	require.NoError(t, err)
	assert.Nil(t, gotAct.SubTasks, "getter returns node without children")

	gotCat, err := s.GetCategory(cat.ID)
	require.NoError(t, err)
	assert.Nil(t, gotCat.Activities)

	_, err = s.GetSubTask(uuid.New())
	var nf *core.NotFoundError
	assert.True(t, errors.As(err, &nf))
}
