package catalog

import (
	"strings"

	"sitetrack/internal/core"
)

// FilterTree prunes a hierarchy to the nodes matching query, case
// insensitively, on name or code. A node whose descendant matches is always
// kept so an ancestor is never hidden from the result; a node that matches
// itself keeps all of its children unfiltered. An empty query returns the
// tree unchanged.
func FilterTree(tree []core.MasterCategory, query string) []core.MasterCategory {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tree
	}

	var out []core.MasterCategory
	for _, cat := range tree {
		if matches(q, cat.Name, cat.Code) {
			out = append(out, cat)
			continue
		}
		if acts := filterActivities(cat.Activities, q); len(acts) > 0 {
			cat.Activities = acts
			out = append(out, cat)
		}
	}
	return out
}

func filterActivities(acts []core.MasterActivity, q string) []core.MasterActivity {
	var out []core.MasterActivity
	for _, act := range acts {
		if matches(q, act.Name, act.Code) {
			out = append(out, act)
			continue
		}
		if subs := filterSubTasks(act.SubTasks, q); len(subs) > 0 {
			act.SubTasks = subs
			out = append(out, act)
		}
	}
	return out
}

func filterSubTasks(subs []core.MasterSubTask, q string) []core.MasterSubTask {
	var out []core.MasterSubTask
	for _, st := range subs {
		if matches(q, st.Name, "") {
			out = append(out, st)
		}
	}
	return out
}

func matches(q string, name, code string) bool {
	return strings.Contains(strings.ToLower(name), q) ||
		(code != "" && strings.Contains(strings.ToLower(code), q))
}
