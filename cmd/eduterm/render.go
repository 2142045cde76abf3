package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/edusenior/eduterm/internal/models"
	"github.com/edusenior/eduterm/internal/view"
)

func renderCatalog(snap view.CatalogSnapshot) {
	fmt.Printf("tab: %s", snap.Tab)
	if snap.Filter.Search != "" {
		fmt.Printf("  search: %q", snap.Filter.Search)
	}
	fmt.Println()

	if snap.State.Phase == view.PhaseError {
		fmt.Println("error: " + snap.State.Message)
		return
	}
	if len(snap.Items) == 0 {
		fmt.Println("no study sets")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSUBJECT\tTYPE\tITEMS\tMASTERY\tFLAGS")
	for _, set := range snap.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			set.ID, set.Title, deref(set.Subject), set.Type, set.ItemCount,
			masteryLabel(set.Mastery), flagLabel(set))
	}
	w.Flush() //nolint:errcheck
}

func renderStudySet(set *models.StudySet) {
	fmt.Printf("%s (id %d)\n", set.Title, set.ID)
	fmt.Printf("  subject: %s  type: %s  level: %s\n", deref(set.Subject), set.Type, deref(set.Level))
	if desc := deref(set.Description); desc != "" {
		fmt.Printf("  %s\n", desc)
	}
	fmt.Printf("  items: %d  mastery: %s\n", set.ItemCount, masteryLabel(set.Mastery))
	if len(set.Tags) > 0 {
		fmt.Printf("  tags: %s\n", strings.Join(set.Tags, ", "))
	}
	if flags := flagLabel(*set); flags != "" {
		fmt.Printf("  flags: %s\n", flags)
	}
}

func renderClasses(classes []models.ClassGroup) {
	if len(classes) == 0 {
		fmt.Println("no classes")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSUBJECT\tLEVEL\tSTUDENTS\tASSIGNMENTS")
	for _, class := range classes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
			class.ID, class.ClassName, deref(class.Subject), deref(class.Level),
			class.StudentCount, class.AssignmentCount)
	}
	w.Flush() //nolint:errcheck
}

func renderRoster(snap view.RosterSnapshot) {
	if snap.ClassNotFound {
		fmt.Println("class not found")
		return
	}
	if snap.Class == nil {
		fmt.Println("error: " + snap.ClassState.Message)
		return
	}

	fmt.Printf("%s (id %d)\n", snap.Class.ClassName, snap.Class.ID)
	switch snap.Tab {
	case view.RosterTabAssignments:
		if snap.AssignmentsState.Phase == view.PhaseError {
			fmt.Println("error: " + snap.AssignmentsState.Message)
			return
		}
		renderAssignments(snap.Assignments)
	default:
		if snap.StudentsState.Phase == view.PhaseError {
			fmt.Println("error: " + snap.StudentsState.Message)
			return
		}
		renderStudents(snap.Students)
	}
}

func renderStudents(students []models.Student) {
	if len(students) == 0 {
		fmt.Println("no students")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL")
	for _, s := range students {
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Name, s.Email)
	}
	w.Flush() //nolint:errcheck
}

func renderAssignments(assignments []models.Assignment) {
	if len(assignments) == 0 {
		fmt.Println("no assignments")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSET\tTITLE\tTYPE\tDUE")
	for _, a := range assignments {
		due := ""
		if a.DueDate != nil {
			due = a.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", a.AssignmentID, a.SetID, a.Title, a.Type, due)
	}
	w.Flush() //nolint:errcheck
}

func masteryLabel(m *float64) string {
	if m == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *m)
}

func flagLabel(set models.StudySet) string {
	var flags []string
	if set.IsAssigned {
		flags = append(flags, "assigned")
	}
	if set.IsDownloaded {
		flags = append(flags, "offline")
	}
	return strings.Join(flags, ",")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
