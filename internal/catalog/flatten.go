package catalog

import (
	"context"

	"github.com/google/uuid"

	"sitetrack/internal/core"
)

// DefaultFlattenChunk is how many categories a Flattener processes per step.
const DefaultFlattenChunk = 25

// FlatRow is one sub-task of the catalog joined with its ancestors, the shape
// used for list display and spreadsheet export.
type FlatRow struct {
	CategoryCode string
	CategoryName string
	ActivityCode string
	ActivityName string
	SubTaskID    uuid.UUID
	SubTaskName  string
	Unit         core.Unit
	Productivity float64
}

// Flattener walks a hierarchy a bounded chunk of categories at a time. The
// host drives it with Step between its own scheduling points; rows are
// buffered internally and only exposed once the walk completes, so a consumer
// never observes a torn partial result. Abandoning a Flattener mid-walk has
// no side effects.
type Flattener struct {
	pending []core.MasterCategory
	chunk   int
	rows    []FlatRow
	done    bool
}

// NewFlattener prepares a chunked walk over tree. chunkSize <= 0 falls back
// to DefaultFlattenChunk.
func NewFlattener(tree []core.MasterCategory, chunkSize int) *Flattener {
	if chunkSize <= 0 {
		chunkSize = DefaultFlattenChunk
	}
	return &Flattener{pending: tree, chunk: chunkSize}
}

// Step processes up to one chunk of categories. It returns true once the
// whole tree has been flattened. A cancelled context stops the walk and
// discards everything buffered so far.
func (f *Flattener) Step(ctx context.Context) (done bool, err error) {
	if f.done {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		f.pending = nil
		f.rows = nil
		return false, err
	}

	n := f.chunk
	if n > len(f.pending) {
		n = len(f.pending)
	}
	for _, cat := range f.pending[:n] {
		f.rows = append(f.rows, flattenCategory(cat)...)
	}
	f.pending = f.pending[n:]
	if len(f.pending) == 0 {
		f.done = true
	}
	return f.done, nil
}

// Rows returns the flattened output. The second return is false until the
// walk has completed.
func (f *Flattener) Rows() ([]FlatRow, bool) {
	if !f.done {
		return nil, false
	}
	return f.rows, true
}

// Flatten drives a chunked walk to completion. Output is identical to a
// plain depth-first traversal of tree.
func Flatten(ctx context.Context, tree []core.MasterCategory, chunkSize int) ([]FlatRow, error) {
	f := NewFlattener(tree, chunkSize)
	for {
		done, err := f.Step(ctx)
		if err != nil {
			return nil, err
		}
		if done {
			rows, _ := f.Rows()
			return rows, nil
		}
	}
}

func flattenCategory(cat core.MasterCategory) []FlatRow {
	var rows []FlatRow
	for _, act := range cat.Activities {
		for _, st := range act.SubTasks {
			rows = append(rows, FlatRow{
				CategoryCode: cat.Code,
				CategoryName: cat.Name,
				ActivityCode: act.Code,
				ActivityName: act.Name,
				SubTaskID:    st.ID,
				SubTaskName:  st.Name,
				Unit:         st.Unit,
				Productivity: st.DefaultProductivity,
			})
		}
	}
	return rows
}
