package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/edusenior/eduterm/internal/models"
	"github.com/edusenior/eduterm/internal/view"
)

func handleSets(a *app, args []string) error {
	fs := flag.NewFlagSet("sets", flag.ContinueOnError)
	search := fs.String("search", "", "free-text search")
	subject := fs.String("subject", "", "subject filter")
	setType := fs.String("type", "", "set type filter")
	ownership := fs.String("ownership", "", "ownership filter (Mine, 'Shared with me', Assigned)")
	sortKey := fs.String("sort", "", "sort key (recently-used, recently-created, a-z, recommended)")
	tab := fs.String("tab", "", "tab to display")
	if err := fs.Parse(args); err != nil {
		return err
	}

	role, err := sessionRole(a)
	if err != nil {
		return err
	}

	ctx := context.Background()
	catalog := view.NewCatalogView(a.client, role, a.logger)
	// Ownership tabs stay inclusive if this fails; the listing still loads.
	_ = catalog.ResolveIdentity(ctx)

	if *tab != "" {
		if err := catalog.SetTab(view.Tab(*tab)); err != nil {
			return err
		}
	}
	fetched := false
	if *sortKey != "" {
		if err := catalog.SetSort(ctx, *sortKey); err != nil {
			return err
		}
		fetched = true
	}
	// Each setter re-fetches; failures land in the snapshot's load state
	// and are rendered, so the errors are not returned here.
	if *search != "" {
		_ = catalog.SetSearch(ctx, *search)
		fetched = true
	}
	if *subject != "" {
		_ = catalog.SetSubject(ctx, *subject)
		fetched = true
	}
	if *setType != "" {
		_ = catalog.SetType(ctx, *setType)
		fetched = true
	}
	if *ownership != "" {
		_ = catalog.SetOwnership(ctx, *ownership)
		fetched = true
	}
	if !fetched {
		_ = catalog.Refresh(ctx)
	}

	renderCatalog(catalog.Snapshot())
	return nil
}

func handleSet(a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: set <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid set id %q", args[0])
	}
	set, err := a.client.GetStudySet(context.Background(), id)
	if err != nil {
		return err
	}
	renderStudySet(set)
	return nil
}

func handleCreateSet(a *app, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: create-set <title> <type> [subject]")
	}
	req := models.CreateStudySetRequest{
		Title:   args[0],
		Type:    args[1],
		Subject: "General",
	}
	if len(args) > 2 {
		req.Subject = args[2]
	}
	set, err := a.client.CreateStudySet(context.Background(), req)
	if err != nil {
		return err
	}
	fmt.Printf("created study set %d: %s\n", set.ID, set.Title)
	return nil
}

func handleUpdateSet(a *app, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: update-set <id> <title|subject|type|level|description> <value...>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid set id %q", args[0])
	}

	value := joinArgs(args[2:])
	var req models.UpdateStudySetRequest
	switch args[1] {
	case "title":
		req.Title = &value
	case "subject":
		req.Subject = &value
	case "type":
		req.Type = &value
	case "level":
		req.Level = &value
	case "description":
		req.Description = &value
	default:
		return fmt.Errorf("unknown field %q", args[1])
	}

	set, err := a.client.UpdateStudySet(context.Background(), id, req)
	if err != nil {
		return err
	}
	fmt.Printf("updated study set %d: %s\n", set.ID, set.Title)
	return nil
}

// handleOffline toggles the downloaded flag through the catalog view so the
// listing is re-fetched afterwards, same as the interactive flow.
func handleOffline(a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: offline <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid set id %q", args[0])
	}

	role, err := sessionRole(a)
	if err != nil {
		return err
	}

	ctx := context.Background()
	catalog := view.NewCatalogView(a.client, role, a.logger)
	_ = catalog.ResolveIdentity(ctx)
	if err := catalog.Refresh(ctx); err != nil {
		return err
	}
	if err := catalog.ToggleOffline(ctx, id); err != nil {
		return err
	}

	for _, item := range catalog.Snapshot().Items {
		if item.ID == id {
			fmt.Printf("set %d offline=%v\n", id, item.IsDownloaded)
			return nil
		}
	}
	fmt.Printf("set %d toggled\n", id)
	return nil
}
