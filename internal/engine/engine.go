package engine

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/idilsaglam/phonebook/internal/model"
	"github.com/idilsaglam/phonebook/internal/notify"
	"github.com/idilsaglam/phonebook/internal/store/reststore"
)

// The engine keeps the local snapshot consistent with the remote store
// under concurrent edits. Every mutation refetches the authoritative
// list first, classifies the draft against it, and issues at most one
// remote call. The refresh-then-mutate window is a best-effort check,
// not a transaction: two clients can still pass the duplicate check
// before either write lands.

// Store is the remote person collection as the engine sees it.
// Replace hands back the raw status: a missing id is reported as a
// plain 404 response, not an error.
type Store interface {
	ListAll(ctx context.Context) ([]model.Person, error)
	Create(ctx context.Context, d model.Draft) (model.Person, error)
	Replace(ctx context.Context, id string, p model.Person) (status int, out model.Person, err error)
	Delete(ctx context.Context, id string) error
}

// Confirmer supplies the two user confirmations owned by the view layer.
// Both calls block until the user answers.
type Confirmer interface {
	ConfirmOverwrite(name string) bool
	ConfirmDelete(name string) bool
}

// ConfirmFuncs adapts plain functions to Confirmer. A nil function
// answers no.
type ConfirmFuncs struct {
	Overwrite func(name string) bool
	Delete    func(name string) bool
}

func (c ConfirmFuncs) ConfirmOverwrite(name string) bool {
	return c.Overwrite != nil && c.Overwrite(name)
}

func (c ConfirmFuncs) ConfirmDelete(name string) bool {
	return c.Delete != nil && c.Delete(name)
}

// Engine owns the local snapshot and the in-progress draft. All remote
// failures surface as notifications; nothing propagates to callers.
type Engine struct {
	store   Store
	notes   *notify.Notifier
	confirm Confirmer
	log     *slog.Logger

	mu       sync.Mutex
	snapshot []model.Person
	draft    model.Draft
}

func New(store Store, notes *notify.Notifier, confirm Confirmer, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{store: store, notes: notes, confirm: confirm, log: log}
}

// Snapshot returns a copy of the local list.
func (e *Engine) Snapshot() []model.Person {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.Person(nil), e.snapshot...)
}

// Draft returns the current input values.
func (e *Engine) Draft() model.Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// SetName updates the draft name field.
func (e *Engine) SetName(name string) {
	e.mu.Lock()
	e.draft.Name = name
	e.mu.Unlock()
}

// SetNumber updates the draft number field.
func (e *Engine) SetNumber(number string) {
	e.mu.Lock()
	e.draft.Number = number
	e.mu.Unlock()
}

// Refresh replaces the snapshot with the authoritative list. On
// transport failure the previous snapshot stays visible, stale but
// available, and the user is told the server is unreachable.
func (e *Engine) Refresh(ctx context.Context) {
	persons, err := e.store.ListAll(ctx)
	if err != nil {
		e.log.Warn("refresh failed", "error", err)
		e.notes.Show(notify.Error, "The data from the server couldn't be reached", notify.DefaultDuration)
		return
	}
	e.mu.Lock()
	e.snapshot = persons
	e.mu.Unlock()
}

// Search filters the snapshot for display. A query containing a digit
// matches on number (case-sensitive substring); anything else matches
// on name, case-insensitively. The empty query returns everything.
// Pure: the snapshot itself is never touched.
func (e *Engine) Search(query string) []model.Person {
	e.mu.Lock()
	snapshot := e.snapshot
	e.mu.Unlock()

	if query == "" {
		return append([]model.Person(nil), snapshot...)
	}
	byNumber := strings.ContainsFunc(query, unicode.IsDigit)
	lowered := strings.ToLower(query)
	var out []model.Person
	for _, p := range snapshot {
		if byNumber {
			if strings.Contains(p.Number, query) {
				out = append(out, p)
			}
		} else if strings.Contains(strings.ToLower(p.Name), lowered) {
			out = append(out, p)
		}
	}
	return out
}

// Submit classifies the draft against a fresh snapshot and dispatches
// at most one remote mutation. A blank draft is rejected silently and
// left in the inputs; any dispatched draft is cleared, whether or not
// the remote call succeeds.
func (e *Engine) Submit(ctx context.Context) {
	e.mu.Lock()
	draft := e.draft
	e.mu.Unlock()
	if draft.Blank() {
		return
	}
	draft = draft.Trimmed()

	// Someone may have edited the book from another client since the
	// last load; refetch before deciding. If the refetch fails the
	// check runs against the stale snapshot.
	e.Refresh(ctx)

	e.mu.Lock()
	snapshot := e.snapshot
	e.mu.Unlock()

	nameExists := false
	numberExists := false
	for _, p := range snapshot {
		if strings.TrimSpace(p.Name) == draft.Name {
			nameExists = true
		}
		if strings.TrimSpace(p.Number) == draft.Number {
			numberExists = true
		}
	}

	switch {
	case !nameExists && !numberExists:
		e.create(ctx, draft)
	case nameExists && !numberExists:
		if e.confirm.ConfirmOverwrite(draft.Name) {
			e.UpdateNumber(ctx, draft.Name, draft.Number)
		} else {
			e.log.Info("overwrite canceled", "name", draft.Name)
		}
	case !nameExists && numberExists:
		e.notes.Show(notify.Error, "Given phonenumber is already in use", notify.DefaultDuration)
	default:
		e.notes.Show(notify.Error, draft.Name+" has already been added to phonebook", notify.DefaultDuration)
	}

	e.mu.Lock()
	e.draft = model.Draft{}
	e.mu.Unlock()
}

func (e *Engine) create(ctx context.Context, draft model.Draft) {
	created, err := e.store.Create(ctx, draft)
	if err != nil {
		e.log.Warn("create failed", "name", draft.Name, "error", err)
		e.notes.Show(notify.Error, serverErrorText(err), 6*time.Second)
		return
	}
	e.mu.Lock()
	e.snapshot = append(append([]model.Person(nil), e.snapshot...), created)
	e.mu.Unlock()
	e.notes.Show(notify.Message, created.Name+" was successfully added", notify.DefaultDuration)
}

// UpdateNumber replaces the number of the person holding name. A 404
// means the person vanished between the refresh and the write; the
// store reports that as a plain status, so it is inspected here rather
// than trusting err alone. Any other status falls through to the
// success path, erroneous or not; see the update semantics note in
// DESIGN.md before changing that.
func (e *Engine) UpdateNumber(ctx context.Context, name, newNumber string) {
	e.mu.Lock()
	var target *model.Person
	for i := range e.snapshot {
		if strings.TrimSpace(e.snapshot[i].Name) == name {
			target = &e.snapshot[i]
			break
		}
	}
	if target == nil {
		e.mu.Unlock()
		e.log.Warn("update target missing from snapshot", "name", name)
		return
	}
	changed := *target
	changed.Number = newNumber
	e.mu.Unlock()

	status, _, err := e.store.Replace(ctx, changed.ID, changed)
	if err != nil || status == http.StatusNotFound {
		e.log.Warn("update failed", "name", name, "status", status, "error", err)
		e.notes.Show(notify.Error, "Information of "+name+" has already been deleted", notify.DefaultDuration)
		return
	}
	e.Refresh(ctx)
	e.notes.Show(notify.Message, name+"'s number was successfully updated", notify.DefaultDuration)
}

// RemovePerson deletes the person with the given id after confirmation.
// Removal is optimistic: the entry disappears locally on success with
// no refetch. On failure the stale entry stays visible until the next
// refresh.
func (e *Engine) RemovePerson(ctx context.Context, id string) {
	e.mu.Lock()
	name := ""
	found := false
	for _, p := range e.snapshot {
		if p.ID == id {
			name = p.Name
			found = true
			break
		}
	}
	e.mu.Unlock()
	if !found {
		e.log.Warn("delete target missing from snapshot", "id", id)
		return
	}

	if !e.confirm.ConfirmDelete(name) {
		e.log.Info("delete canceled", "name", name)
		return
	}
	if err := e.store.Delete(ctx, id); err != nil {
		e.log.Warn("delete failed", "id", id, "error", err)
		e.notes.Show(notify.Error, "The person could not be found. Please refresh and retry.", notify.DefaultDuration)
		return
	}

	e.mu.Lock()
	out := make([]model.Person, 0, len(e.snapshot))
	for _, p := range e.snapshot {
		if p.ID != id {
			out = append(out, p)
		}
	}
	e.snapshot = out
	e.mu.Unlock()
	e.notes.Show(notify.Message, "Successfully deleted "+name, 3*time.Second)
}

// serverErrorText prefers the server-supplied rejection message.
func serverErrorText(err error) string {
	var verr *reststore.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
