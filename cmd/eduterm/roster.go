package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/edusenior/eduterm/internal/models"
	"github.com/edusenior/eduterm/internal/view"
)

func handleClasses(a *app, args []string) error {
	classes, err := a.client.ListClasses(context.Background())
	if err != nil {
		return err
	}
	renderClasses(classes)
	return nil
}

func handleCreateClass(a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: create-class <name> [subject] [level]")
	}
	req := models.CreateClassRequest{ClassName: args[0], Subject: "General"}
	if len(args) > 1 {
		req.Subject = args[1]
	}
	if len(args) > 2 {
		req.Level = args[2]
	}
	class, err := a.client.CreateClass(context.Background(), req)
	if err != nil {
		return err
	}
	fmt.Printf("created class %d: %s\n", class.ID, class.ClassName)
	return nil
}

func handleClass(a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: class <id> [students|assignments]")
	}
	roster, err := loadRoster(a, args[0])
	if err != nil {
		return err
	}

	tab := view.RosterTabStudents
	if len(args) > 1 {
		switch args[1] {
		case "students":
			tab = view.RosterTabStudents
		case "assignments":
			tab = view.RosterTabAssignments
		default:
			return fmt.Errorf("unknown tab %q", args[1])
		}
	}
	if err := roster.ActivateTab(context.Background(), tab); err != nil {
		return err
	}
	renderRoster(roster.Snapshot())
	return nil
}

func handleAddStudents(a *app, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: add-students <class-id> <student-id...>")
	}
	roster, err := loadRoster(a, args[0])
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(args)-1)
	for _, raw := range args[1:] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid student id %q", raw)
		}
		ids = append(ids, id)
	}

	result, err := roster.AddStudents(context.Background(), ids)
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	for _, msg := range result.Errors {
		fmt.Println("  " + msg)
	}
	return nil
}

// handleRemoveStudent walks the full confirmation flow: the target must be in
// the loaded roster before the request is issued.
func handleRemoveStudent(a *app, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: remove-student <class-id> <student-id>")
	}
	roster, err := loadRoster(a, args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := roster.ActivateTab(ctx, view.RosterTabStudents); err != nil {
		return err
	}

	studentID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid student id %q", args[1])
	}
	if err := roster.RequestRemove(studentID); err != nil {
		return err
	}

	target := roster.Snapshot().Remove.Target
	fmt.Printf("remove %s <%s> from %s? [y/N] ", target.Name, target.Email, roster.Snapshot().Class.ClassName)
	var answer string
	fmt.Fscanln(os.Stdin, &answer) //nolint:errcheck
	if !strings.EqualFold(answer, "y") {
		roster.CancelRemove()
		fmt.Println("cancelled")
		return nil
	}

	if err := roster.ConfirmRemove(ctx); err != nil {
		snap := roster.Snapshot()
		if snap.Remove.Phase == view.RemoveFailed {
			roster.AcknowledgeRemoveFailure()
		}
		return err
	}
	fmt.Println("student removed")
	return nil
}

func handleSearchUsers(a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: search-users <query>")
	}
	students, err := a.client.SearchUsers(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	renderStudents(students)
	return nil
}

func handleAssign(a *app, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: assign <class-id> <set-id> [due-date RFC3339]")
	}
	roster, err := loadRoster(a, args[0])
	if err != nil {
		return err
	}

	setID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid set id %q", args[1])
	}
	dueDate := ""
	if len(args) > 2 {
		dueDate = args[2]
	}

	result, err := roster.CreateAssignment(context.Background(), setID, dueDate)
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	return nil
}

func handleExportRoster(a *app, args []string) error {
	return exportClassData(a, args, "export-roster", func(roster *view.RosterView, format string) ([]byte, error) {
		if err := roster.ActivateTab(context.Background(), view.RosterTabStudents); err != nil {
			return nil, err
		}
		return roster.ExportRoster(format)
	})
}

func handleExportAssignments(a *app, args []string) error {
	return exportClassData(a, args, "export-assignments", func(roster *view.RosterView, format string) ([]byte, error) {
		if err := roster.ActivateTab(context.Background(), view.RosterTabAssignments); err != nil {
			return nil, err
		}
		return roster.ExportAssignments(format)
	})
}

func exportClassData(a *app, args []string, name string, render func(*view.RosterView, string) ([]byte, error)) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: %s <class-id> <csv|pdf> <file>", name)
	}
	roster, err := loadRoster(a, args[0])
	if err != nil {
		return err
	}
	data, err := render(roster, args[1])
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[2], data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %d bytes to %s\n", len(data), args[2])
	return nil
}

// loadRoster parses the class id and resolves the class, surfacing the
// distinct "class not found" outcome before any roster work happens.
func loadRoster(a *app, rawID string) (*view.RosterView, error) {
	classID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid class id %q", rawID)
	}
	roster := view.NewRosterView(a.client, classID, a.logger)
	if err := roster.Load(context.Background()); err != nil {
		return nil, err
	}
	return roster, nil
}
