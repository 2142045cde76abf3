package view

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/edusenior/eduterm/internal/models"
	appErrors "github.com/edusenior/eduterm/pkg/errors"
)

// LoadPhase describes a panel's loading state.
type LoadPhase int

const (
	PhaseIdle LoadPhase = iota
	PhaseLoading
	PhaseError
)

// LoadState pairs a phase with the display message for PhaseError.
type LoadState struct {
	Phase   LoadPhase
	Message string
}

type catalogClient interface {
	ListStudySets(ctx context.Context, filter models.StudySetFilter) ([]models.StudySet, error)
	MarkOffline(ctx context.Context, id int64) error
	RemoveOffline(ctx context.Context, id int64) error
	Me(ctx context.Context) (*models.Profile, error)
}

// CatalogView owns the fetched study set list, the active filter and tab
// selection, and derives the visible subset. Every filter change and every
// mutation triggers a full re-fetch; the server stays the source of truth
// for all derived fields.
type CatalogView struct {
	client catalogClient
	logger *zap.Logger
	role   models.Role

	mu         sync.Mutex
	filter     models.StudySetFilter
	tab        Tab
	items      []models.StudySet
	state      LoadState
	loadedOnce bool

	// seq tags each issued list request; only the most recently issued
	// request's response may update state.
	seq uint64

	identity      int64
	identityKnown bool
}

// CatalogSnapshot is an immutable copy of the view state for rendering.
type CatalogSnapshot struct {
	Role          models.Role
	Tab           Tab
	Filter        models.StudySetFilter
	State         LoadState
	Items         []models.StudySet
	FetchedCount  int
	Identity      int64
	IdentityKnown bool
}

// NewCatalogView builds a catalog view for the given role. The active tab
// starts at the role's first tab.
func NewCatalogView(client catalogClient, role models.Role, logger *zap.Logger) *CatalogView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogView{
		client: client,
		logger: logger,
		role:   role,
		tab:    TabsFor(role)[0],
		filter: models.StudySetFilter{Sort: models.SortRecentlyUsed},
	}
}

// ResolveIdentity fetches the viewer's profile for ownership-based tabs. It
// runs independently of list fetches; until it succeeds the ownership tabs
// stay inclusive, so a failure here degrades display rather than blocking it.
func (v *CatalogView) ResolveIdentity(ctx context.Context) error {
	profile, err := v.client.Me(ctx)
	if err != nil {
		v.logger.Warn("identity resolution failed", zap.Error(err))
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.identity = profile.ID
	v.identityKnown = true
	return nil
}

// Refresh issues one list request carrying the current filter set. Responses
// arriving after a newer request was issued are discarded.
func (v *CatalogView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	filter := v.filter
	v.state = LoadState{Phase: PhaseLoading}
	v.mu.Unlock()

	items, err := v.client.ListStudySets(ctx, filter)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		// A newer request has been issued since; this response is stale.
		return nil
	}
	if err != nil {
		msg := appErrors.FromError(err).Message
		v.state = LoadState{Phase: PhaseError, Message: msg}
		if v.loadedOnce {
			// Once data has been shown, an error replaces the listing
			// rather than leaving stale rows the user can't tell are stale.
			v.items = nil
		}
		return err
	}
	v.items = items
	v.loadedOnce = true
	v.state = LoadState{Phase: PhaseIdle}
	return nil
}

// SetSearch updates the search text and triggers exactly one re-fetch.
func (v *CatalogView) SetSearch(ctx context.Context, search string) error {
	v.mu.Lock()
	v.filter.Search = search
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// SetSubject updates the subject filter and triggers exactly one re-fetch.
func (v *CatalogView) SetSubject(ctx context.Context, subject string) error {
	v.mu.Lock()
	v.filter.Subject = subject
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// SetType updates the set-type filter and triggers exactly one re-fetch.
func (v *CatalogView) SetType(ctx context.Context, setType string) error {
	v.mu.Lock()
	v.filter.Type = setType
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// SetOwnership updates the ownership filter and triggers exactly one re-fetch.
func (v *CatalogView) SetOwnership(ctx context.Context, ownership string) error {
	v.mu.Lock()
	v.filter.Ownership = ownership
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// SetSort updates the sort key and triggers exactly one re-fetch. Unknown
// keys are rejected locally before any request is issued.
func (v *CatalogView) SetSort(ctx context.Context, sort string) error {
	switch sort {
	case models.SortRecentlyUsed, models.SortRecentlyCreated, models.SortAlphabetical, models.SortRecommended:
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown sort key: "+sort)
	}
	v.mu.Lock()
	v.filter.Sort = sort
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// SetTab changes the client-side tab narrowing. No request is issued.
func (v *CatalogView) SetTab(tab Tab) error {
	for _, t := range TabsFor(v.role) {
		if t == tab {
			v.mu.Lock()
			v.tab = tab
			v.mu.Unlock()
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, "tab not available for role: "+string(tab))
}

// ToggleOffline flips the downloaded flag of one item server-side, then
// performs a full list re-fetch. The displayed flag always comes from the
// server's post-toggle state, never a local guess.
func (v *CatalogView) ToggleOffline(ctx context.Context, id int64) error {
	v.mu.Lock()
	var downloaded, found bool
	for _, item := range v.items {
		if item.ID == id {
			downloaded = item.IsDownloaded
			found = true
			break
		}
	}
	v.mu.Unlock()

	if !found {
		return appErrors.RequestFailed(http.StatusNotFound, "study set is not in the current listing")
	}

	var err error
	if downloaded {
		err = v.client.RemoveOffline(ctx, id)
	} else {
		err = v.client.MarkOffline(ctx, id)
	}
	if err != nil {
		return err
	}
	return v.Refresh(ctx)
}

// NotifyMutated is the dialog collaborators' success callback: any create or
// update settles with one full list re-fetch.
func (v *CatalogView) NotifyMutated(ctx context.Context) error {
	return v.Refresh(ctx)
}

// Snapshot returns a copy of the state with the tab predicate applied.
func (v *CatalogView) Snapshot() CatalogSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	visible := make([]models.StudySet, 0, len(v.items))
	for _, item := range v.items {
		if matchesTab(v.tab, item, v.identity, v.identityKnown) {
			visible = append(visible, item)
		}
	}

	return CatalogSnapshot{
		Role:          v.role,
		Tab:           v.tab,
		Filter:        v.filter,
		State:         v.state,
		Items:         visible,
		FetchedCount:  len(v.items),
		Identity:      v.identity,
		IdentityKnown: v.identityKnown,
	}
}

// CanEdit reports whether the edit affordance is shown for a set.
func (v *CatalogView) CanEdit(set models.StudySet) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return CanEdit(v.role, set, v.identity, v.identityKnown)
}
