package view

import "github.com/edusenior/eduterm/internal/models"

// Tab is a client-side narrowing of the fetched study set list.
type Tab string

const (
	TabAll      Tab = "All"
	TabMySets   Tab = "My sets"
	TabShared   Tab = "Shared with me"
	TabAssigned Tab = "Assigned"
	TabOffline  Tab = "Offline"
)

// IsTeacherView reports whether the teacher-facing tab set and actions apply.
func IsTeacherView(role models.Role) bool {
	return role == models.RoleTeacher
}

// TabsFor returns the ordered tab list for the role.
func TabsFor(role models.Role) []Tab {
	if IsTeacherView(role) {
		return []Tab{TabMySets, TabShared, TabAll}
	}
	return []Tab{TabAll, TabAssigned, TabMySets, TabOffline}
}

// CanEdit decides edit-affordance visibility from the two independent gates:
// role and ownership. Teachers may edit any set surfaced to them; students
// only sets they created, and only once their identity is resolved. The
// server remains the authoritative enforcer.
func CanEdit(role models.Role, set models.StudySet, identity int64, identityKnown bool) bool {
	if IsTeacherView(role) {
		return true
	}
	return identityKnown && set.CreatorID == identity
}

// matchesTab applies the tab predicate. While the viewer's identity is still
// unresolved, ownership-dependent tabs include everything so the listing
// never flashes empty before the profile fetch lands.
func matchesTab(tab Tab, set models.StudySet, identity int64, identityKnown bool) bool {
	switch tab {
	case TabMySets:
		return !identityKnown || set.CreatorID == identity
	case TabShared:
		return !identityKnown || set.CreatorID != identity
	case TabAssigned:
		return set.IsAssigned
	case TabOffline:
		return set.IsDownloaded
	default:
		return true
	}
}
