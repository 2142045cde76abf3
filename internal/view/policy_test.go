package view

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edusenior/eduterm/internal/models"
)

func TestTabsForRole(t *testing.T) {
	require.Equal(t, []Tab{TabMySets, TabShared, TabAll}, TabsFor(models.RoleTeacher))
	require.Equal(t, []Tab{TabAll, TabAssigned, TabMySets, TabOffline}, TabsFor(models.RoleStudent))
}

func TestCanEditTeacherAlwaysMay(t *testing.T) {
	set := models.StudySet{CreatorID: 99}
	require.True(t, CanEdit(models.RoleTeacher, set, 1, true))
	require.True(t, CanEdit(models.RoleTeacher, set, 0, false))
}

func TestCanEditStudentNeedsResolvedOwnership(t *testing.T) {
	own := models.StudySet{CreatorID: 7}
	other := models.StudySet{CreatorID: 8}

	require.True(t, CanEdit(models.RoleStudent, own, 7, true))
	require.False(t, CanEdit(models.RoleStudent, other, 7, true))
	// Until the identity is known no student edit affordance is shown,
	// even for sets the student actually owns.
	require.False(t, CanEdit(models.RoleStudent, own, 0, false))
}

func TestMatchesTabOwnership(t *testing.T) {
	mine := models.StudySet{CreatorID: 7}
	theirs := models.StudySet{CreatorID: 8}

	require.True(t, matchesTab(TabMySets, mine, 7, true))
	require.False(t, matchesTab(TabMySets, theirs, 7, true))
	require.True(t, matchesTab(TabShared, theirs, 7, true))
	require.False(t, matchesTab(TabShared, mine, 7, true))
}

func TestMatchesTabInclusiveWhileIdentityPending(t *testing.T) {
	set := models.StudySet{CreatorID: 8}
	require.True(t, matchesTab(TabMySets, set, 0, false))
	require.True(t, matchesTab(TabShared, set, 0, false))
}

func TestMatchesTabFlags(t *testing.T) {
	assigned := models.StudySet{IsAssigned: true}
	downloaded := models.StudySet{IsDownloaded: true}
	plain := models.StudySet{}

	require.True(t, matchesTab(TabAssigned, assigned, 0, false))
	require.False(t, matchesTab(TabAssigned, plain, 0, false))
	require.True(t, matchesTab(TabOffline, downloaded, 0, false))
	require.False(t, matchesTab(TabOffline, plain, 0, false))
	require.True(t, matchesTab(TabAll, plain, 0, false))
}
