package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"sitetrack/internal/core"
)

func flattenFixture(categories, subTasksPer int) []core.MasterCategory {
	tree := make([]core.MasterCategory, 0, categories)
	for i := 0; i < categories; i++ {
		cat := core.MasterCategory{
			ID:   uuid.New(),
			Code: "CAT", Name: "Category",
		}
		act := core.MasterActivity{
			ID:   uuid.New(),
			Code: "ACT", Name: "Activity",
		}
		for j := 0; j < subTasksPer; j++ {
			act.SubTasks = append(act.SubTasks, core.MasterSubTask{
				ID:                  uuid.New(),
				Name:                "Leaf",
				Unit:                core.UnitItem,
				DefaultProductivity: 2,
			})
		}
		cat.Activities = []core.MasterActivity{act}
		tree = append(tree, cat)
	}
	return tree
}

func TestFlatten(t *testing.T) {
	tree := flattenFixture(7, 3)

	rows, err := Flatten(context.Background(), tree, 2)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	if len(rows) != 21 {
		t.Fatalf("got %d rows, want 21", len(rows))
	}

	t.Run("rows join the full ancestor chain", func(t *testing.T) {
		r := rows[0]
		if r.CategoryCode != "CAT" || r.ActivityCode != "ACT" || r.SubTaskName != "Leaf" {
			t.Errorf("row missing ancestor columns: %+v", r)
		}
		if r.Unit != core.UnitItem || r.Productivity != 2 {
			t.Errorf("row missing leaf attributes: %+v", r)
		}
	})

	t.Run("output is chunk-size independent", func(t *testing.T) {
		for _, chunk := range []int{1, 3, 100, 0, -5} {
			got, err := Flatten(context.Background(), tree, chunk)
			if err != nil {
				t.Fatalf("chunk %d: %v", chunk, err)
			}
			if len(got) != len(rows) {
				t.Fatalf("chunk %d: got %d rows, want %d", chunk, len(got), len(rows))
			}
			for i := range rows {
				if got[i].SubTaskID != rows[i].SubTaskID {
					t.Fatalf("chunk %d: row %d out of order", chunk, i)
				}
			}
		}
	})

	t.Run("empty tree", func(t *testing.T) {
		got, err := Flatten(context.Background(), nil, 10)
		if err != nil {
			t.Fatalf("Flatten(nil) error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d rows, want 0", len(got))
		}
	})
}

func TestFlattener_Step(t *testing.T) {
	tree := flattenFixture(5, 1)
	f := NewFlattener(tree, 2)

	t.Run("rows unavailable until the walk completes", func(t *testing.T) {
		done, err := f.Step(context.Background())
		if err != nil || done {
			t.Fatalf("first step: done=%v err=%v, want in-progress", done, err)
		}
		if _, ok := f.Rows(); ok {
			t.Error("Rows() exposed a partial result")
		}
	})

	t.Run("completes in ceil(5/2) steps", func(t *testing.T) {
		steps := 1 // one step already taken above
		for {
			done, err := f.Step(context.Background())
			if err != nil {
				t.Fatalf("step error: %v", err)
			}
			steps++
			if done {
				break
			}
		}
		if steps != 3 {
			t.Errorf("walk took %d steps, want 3", steps)
		}
		rows, ok := f.Rows()
		if !ok || len(rows) != 5 {
			t.Errorf("Rows() = %d rows, ok=%v; want 5 rows", len(rows), ok)
		}
	})

	t.Run("stepping past done is a no-op", func(t *testing.T) {
		done, err := f.Step(context.Background())
		if !done || err != nil {
			t.Errorf("step after done: done=%v err=%v", done, err)
		}
	})
}

func TestFlatten_Cancellation(t *testing.T) {
	tree := flattenFixture(10, 2)

	t.Run("cancelled context aborts the walk", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Flatten(ctx, tree, 3)
		if err == nil {
			t.Fatal("expected cancellation error")
		}
	})

	t.Run("cancellation mid-walk discards buffered rows", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		f := NewFlattener(tree, 3)

		if _, err := f.Step(ctx); err != nil {
			t.Fatalf("first step: %v", err)
		}
		cancel()

		if _, err := f.Step(ctx); err == nil {
			t.Fatal("step after cancel should fail")
		}
		if _, ok := f.Rows(); ok {
			t.Error("cancelled walk still exposes rows")
		}
	})
}
