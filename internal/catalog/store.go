// Package catalog owns the Category/Activity/Sub-Task master-data hierarchy.
//
// Nodes are held in a flat arena keyed by id with explicit parent-id
// back-references; the nested tree handed to callers is assembled on demand,
// so filtering and flattening stay pure functions over flat storage.
package catalog

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"sitetrack/internal/core"
)

// Store is the sole mutator of the catalog hierarchy. All operations are
// synchronous; the mutex only guards against concurrent readers during a
// write, callers serialize writes per entity.
type Store struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]core.MasterCategory
	activities map[uuid.UUID]core.MasterActivity
	subTasks   map[uuid.UUID]core.MasterSubTask
}

func NewStore() *Store {
	return &Store{
		categories: make(map[uuid.UUID]core.MasterCategory),
		activities: make(map[uuid.UUID]core.MasterActivity),
		subTasks:   make(map[uuid.UUID]core.MasterSubTask),
	}
}

// CreateCategory adds a category. The code is normalized to uppercase and
// must be unique across the catalog. New nodes start active.
func (s *Store) CreateCategory(c core.MasterCategory) (core.MasterCategory, error) {
	c.Code = core.NormalizeCode(c.Code)
	if err := c.Validate(); err != nil {
		return core.MasterCategory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categoryByCode(c.Code); ok {
		return core.MasterCategory{}, &core.DuplicateCodeError{Code: c.Code}
	}
	c.ID = uuid.New()
	c.IsActive = true
	c.Activities = nil
	s.categories[c.ID] = c
	return c, nil
}

// UpdateCategory replaces the mutable fields of an existing category. A code
// change is re-checked for uniqueness against the remaining categories.
func (s *Store) UpdateCategory(id uuid.UUID, upd core.MasterCategory) (core.MasterCategory, error) {
	upd.Code = core.NormalizeCode(upd.Code)
	if err := upd.Validate(); err != nil {
		return core.MasterCategory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.categories[id]
	if !ok {
		return core.MasterCategory{}, &core.NotFoundError{Kind: "category", ID: id.String()}
	}
	if other, ok := s.categoryByCode(upd.Code); ok && other.ID != id {
		return core.MasterCategory{}, &core.DuplicateCodeError{Code: upd.Code}
	}
	cur.Code = upd.Code
	cur.Name = upd.Name
	cur.Description = upd.Description
	cur.Order = upd.Order
	cur.IsActive = upd.IsActive
	s.categories[id] = cur
	return cur, nil
}

// DeleteCategory removes a category. It refuses while the category still owns
// at least one active activity; there is no implicit cascade.
func (s *Store) DeleteCategory(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[id]
	if !ok {
		return &core.NotFoundError{Kind: "category", ID: id.String()}
	}
	active := 0
	for _, a := range s.activities {
		if a.CategoryID == id && a.IsActive {
			active++
		}
	}
	if active > 0 {
		return &core.HasDependentsError{Kind: "category", Name: cat.Name, Dependents: active}
	}
	// Inactive activities left behind would dangle; remove them with their
	// sub-tasks since nothing active depends on them.
	for aid, a := range s.activities {
		if a.CategoryID != id {
			continue
		}
		for sid, st := range s.subTasks {
			if st.ActivityID == aid {
				delete(s.subTasks, sid)
			}
		}
		delete(s.activities, aid)
	}
	delete(s.categories, id)
	return nil
}

// CreateActivity adds an activity under an existing category. The code must
// be unique among that category's activities.
func (s *Store) CreateActivity(a core.MasterActivity) (core.MasterActivity, error) {
	a.Code = core.NormalizeCode(a.Code)
	if err := a.Validate(); err != nil {
		return core.MasterActivity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[a.CategoryID]; !ok {
		return core.MasterActivity{}, &core.NotFoundError{Kind: "category", ID: a.CategoryID.String()}
	}
	if _, ok := s.activityByCode(a.CategoryID, a.Code); ok {
		return core.MasterActivity{}, &core.DuplicateCodeError{Code: a.Code}
	}
	a.ID = uuid.New()
	a.IsActive = true
	a.SubTasks = nil
	s.activities[a.ID] = a
	return a, nil
}

func (s *Store) UpdateActivity(id uuid.UUID, upd core.MasterActivity) (core.MasterActivity, error) {
	upd.Code = core.NormalizeCode(upd.Code)
	if err := upd.Validate(); err != nil {
		return core.MasterActivity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.activities[id]
	if !ok {
		return core.MasterActivity{}, &core.NotFoundError{Kind: "activity", ID: id.String()}
	}
	if other, ok := s.activityByCode(cur.CategoryID, upd.Code); ok && other.ID != id {
		return core.MasterActivity{}, &core.DuplicateCodeError{Code: upd.Code}
	}
	cur.Code = upd.Code
	cur.Name = upd.Name
	cur.Description = upd.Description
	cur.DefaultUnit = upd.DefaultUnit
	cur.Order = upd.Order
	cur.IsActive = upd.IsActive
	s.activities[id] = cur
	return cur, nil
}

// DeleteActivity removes an activity. It refuses while the activity still
// owns any sub-task.
func (s *Store) DeleteActivity(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	act, ok := s.activities[id]
	if !ok {
		return &core.NotFoundError{Kind: "activity", ID: id.String()}
	}
	owned := 0
	for _, st := range s.subTasks {
		if st.ActivityID == id {
			owned++
		}
	}
	if owned > 0 {
		return &core.HasDependentsError{Kind: "activity", Name: act.Name, Dependents: owned}
	}
	delete(s.activities, id)
	return nil
}

// CreateSubTask adds a leaf sub-task under an existing activity.
func (s *Store) CreateSubTask(st core.MasterSubTask) (core.MasterSubTask, error) {
	if err := st.Validate(); err != nil {
		return core.MasterSubTask{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[st.ActivityID]; !ok {
		return core.MasterSubTask{}, &core.NotFoundError{Kind: "activity", ID: st.ActivityID.String()}
	}
	st.ID = uuid.New()
	st.IsActive = true
	s.subTasks[st.ID] = st
	return st, nil
}

func (s *Store) UpdateSubTask(id uuid.UUID, upd core.MasterSubTask) (core.MasterSubTask, error) {
	if err := upd.Validate(); err != nil {
		return core.MasterSubTask{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.subTasks[id]
	if !ok {
		return core.MasterSubTask{}, &core.NotFoundError{Kind: "subTask", ID: id.String()}
	}
	cur.Name = upd.Name
	cur.Description = upd.Description
	cur.DefaultProductivity = upd.DefaultProductivity
	cur.Unit = upd.Unit
	cur.Order = upd.Order
	cur.IsActive = upd.IsActive
	s.subTasks[id] = cur
	return cur, nil
}

// DeleteSubTask removes a leaf sub-task. Leaves own nothing, so deletion
// never blocks on dependents.
func (s *Store) DeleteSubTask(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subTasks[id]; !ok {
		return &core.NotFoundError{Kind: "subTask", ID: id.String()}
	}
	delete(s.subTasks, id)
	return nil
}

// GetSubTask returns a sub-task by id.
func (s *Store) GetSubTask(id uuid.UUID) (core.MasterSubTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.subTasks[id]
	if !ok {
		return core.MasterSubTask{}, &core.NotFoundError{Kind: "subTask", ID: id.String()}
	}
	return st, nil
}

// GetActivity returns an activity by id, without its sub-tasks.
func (s *Store) GetActivity(id uuid.UUID) (core.MasterActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[id]
	if !ok {
		return core.MasterActivity{}, &core.NotFoundError{Kind: "activity", ID: id.String()}
	}
	a.SubTasks = nil
	return a, nil
}

// GetCategory returns a category by id, without its activities.
func (s *Store) GetCategory(id uuid.UUID) (core.MasterCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return core.MasterCategory{}, &core.NotFoundError{Kind: "category", ID: id.String()}
	}
	c.Activities = nil
	return c, nil
}

// Hierarchy assembles the full owned tree from the arena, ordered by each
// node's sort key. The result is a deep copy; mutating it does not touch the
// store.
func (s *Store) Hierarchy() []core.MasterCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assembleLocked()
}

// Counts returns the number of categories, activities and sub-tasks.
func (s *Store) Counts() (categories, activities, subTasks int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categories), len(s.activities), len(s.subTasks)
}

// Restore replaces the whole arena with an already-assembled tree. Used when
// loading a persisted catalog at startup; nodes without ids get fresh ones.
func (s *Store) Restore(tree []core.MasterCategory) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = make(map[uuid.UUID]core.MasterCategory)
	s.activities = make(map[uuid.UUID]core.MasterActivity)
	s.subTasks = make(map[uuid.UUID]core.MasterSubTask)

	for _, c := range tree {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		acts := c.Activities
		c.Activities = nil
		s.categories[c.ID] = c
		for _, a := range acts {
			if a.ID == uuid.Nil {
				a.ID = uuid.New()
			}
			a.CategoryID = c.ID
			subs := a.SubTasks
			a.SubTasks = nil
			s.activities[a.ID] = a
			for _, st := range subs {
				if st.ID == uuid.Nil {
					st.ID = uuid.New()
				}
				st.ActivityID = a.ID
				s.subTasks[st.ID] = st
			}
		}
	}
}

func (s *Store) assembleLocked() []core.MasterCategory {
	cats := make([]core.MasterCategory, 0, len(s.categories))
	for _, c := range s.categories {
		c.Activities = nil
		for _, a := range s.activities {
			if a.CategoryID != c.ID {
				continue
			}
			a.SubTasks = nil
			for _, st := range s.subTasks {
				if st.ActivityID == a.ID {
					a.SubTasks = append(a.SubTasks, st)
				}
			}
			sortSubTasks(a.SubTasks)
			c.Activities = append(c.Activities, a)
		}
		sortActivities(c.Activities)
		cats = append(cats, c)
	}
	sortCategories(cats)
	return cats
}

func (s *Store) categoryByCode(code string) (core.MasterCategory, bool) {
	for _, c := range s.categories {
		if c.Code == code {
			return c, true
		}
	}
	return core.MasterCategory{}, false
}

func (s *Store) activityByCode(categoryID uuid.UUID, code string) (core.MasterActivity, bool) {
	for _, a := range s.activities {
		if a.CategoryID == categoryID && a.Code == code {
			return a, true
		}
	}
	return core.MasterActivity{}, false
}

func sortCategories(cats []core.MasterCategory) {
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Order != cats[j].Order {
			return cats[i].Order < cats[j].Order
		}
		return cats[i].Code < cats[j].Code
	})
}

func sortActivities(acts []core.MasterActivity) {
	sort.Slice(acts, func(i, j int) bool {
		if acts[i].Order != acts[j].Order {
			return acts[i].Order < acts[j].Order
		}
		return acts[i].Code < acts[j].Code
	})
}

func sortSubTasks(subs []core.MasterSubTask) {
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Order != subs[j].Order {
			return subs[i].Order < subs[j].Order
		}
		return subs[i].Name < subs[j].Name
	})
}
