// Package forms drives the back office edit forms: an in-progress draft, an optional edit
// target, pending image selections, and the submit / delete flows that write through to
// the record store and re-read the whole list afterwards.
package forms

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"atelier/internal/apperrors"
	"atelier/internal/notify"
	"atelier/internal/snapshot"
	"atelier/internal/upload"
	"atelier/internal/validation"

	"github.com/rs/zerolog"
)

// Store is the record store surface a Controller writes through.
type Store[R any] interface {
	List(ctx context.Context) ([]R, error)
	Create(ctx context.Context, record *R) error
	Update(ctx context.Context, record *R) error
	Delete(ctx context.Context, id string) error
}

// StoreFuncs adapts plain functions (usually service methods) to Store.
type StoreFuncs[R any] struct {
	ListFn   func(context.Context) ([]R, error)
	CreateFn func(context.Context, *R) error
	UpdateFn func(context.Context, *R) error
	DeleteFn func(context.Context, string) error
}

func (s StoreFuncs[R]) List(ctx context.Context) ([]R, error) { return s.ListFn(ctx) }
func (s StoreFuncs[R]) Create(ctx context.Context, r *R) error { return s.CreateFn(ctx, r) }
func (s StoreFuncs[R]) Update(ctx context.Context, r *R) error { return s.UpdateFn(ctx, r) }
func (s StoreFuncs[R]) Delete(ctx context.Context, id string) error { return s.DeleteFn(ctx, id) }

// Uploader pushes selected files and returns existing ++ uploaded URLs. *upload.Pipeline implements it.
type Uploader interface {
	Upload(ctx context.Context, existing []string, files []upload.File) ([]string, error)
}

// Images binds a record's image list to the upload flow.
type Images[D, R any] struct {
	Uploader Uploader
	// MaxFiles caps pending selections; 0 means unlimited. Extra selections replace the oldest.
	MaxFiles int
	// Existing returns the stored URLs kept in front of new uploads when editing.
	Existing func(R) []string
	// Fallback returns a pasted URL used when nothing was uploaded.
	Fallback func(D) string
	Set      func(*R, []string)
}

// Codec describes one entity form.
type Codec[D, R any] struct {
	// Entity is the human name used in notifications ("Product").
	Entity string
	Blank  func() D
	// Normalize returns a trimmed copy of a draft.
	Normalize func(D) D
	// Encode turns a stored record into an edit draft.
	Encode func(R) D
	// Decode converts a normalized draft into the record to store. editing is nil on create.
	Decode func(d D, editing *R) R
	// Key returns the record id. Deleting the record open for editing resets the form.
	Key    func(R) string
	// ClearToggles returns the draft with its checkbox fields off. HTML forms omit unchecked
	// boxes, so a form post is overlaid on a cleared draft.
	ClearToggles func(D) D
	Images       *Images[D, R]
}

// Confirmer answers a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Confirmed is a fixed answer, e.g. taken from a request parameter.
type Confirmed bool

func (c Confirmed) Confirm(string) bool { return bool(c) }

// Options carries the optional collaborators of a Controller.
type Options struct {
	Notifier notify.Notifier
	Logger   *zerolog.Logger
}

type discard struct{}

func (discard) Notify(notify.Notification) {}

// Controller holds the state of one entity form.
type Controller[D, R any] struct {
	codec    Codec[D, R]
	store    Store[R]
	validate *validation.Validator
	notifier notify.Notifier
	log      zerolog.Logger

	mu       sync.Mutex
	draft    D
	editing  *R
	selected []upload.File

	items snapshot.Holder[[]R]
}

// New returns a Controller with a blank draft.
func New[D, R any](codec Codec[D, R], store Store[R], opts Options) *Controller[D, R] {
	c := &Controller[D, R]{
		codec:    codec,
		store:    store,
		validate: validation.New("form"),
		notifier: opts.Notifier,
		log:      zerolog.Nop(),
	}
	if c.notifier == nil {
		c.notifier = discard{}
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "forms").Str("entity", codec.Entity).Logger()
	}
	c.draft = codec.Blank()
	return c
}

// Reset returns to a blank draft, leaves edit mode and drops pending selections.
func (c *Controller[D, R]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = c.codec.Blank()
	c.editing = nil
	c.selected = nil
}

// LoadForEdit fills the draft from record and enters edit mode.
func (c *Controller[D, R]) LoadForEdit(record R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = c.codec.Encode(record)
	c.editing = &record
	c.selected = nil
}

// ClearToggles switches every checkbox field of the draft off.
func (c *Controller[D, R]) ClearToggles() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.codec.ClearToggles != nil {
		c.draft = c.codec.ClearToggles(c.draft)
	}
}

// Editing returns the record being edited, if any.
func (c *Controller[D, R]) Editing() (R, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing == nil {
		var zero R
		return zero, false
	}
	return *c.editing, true
}

func (c *Controller[D, R]) Draft() D {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller[D, R]) SetDraft(d D) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

// Select adds local files to the pending selection.
func (c *Controller[D, R]) Select(files ...upload.File) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = append(c.selected, files...)
	if img := c.codec.Images; img != nil && img.MaxFiles > 0 && len(c.selected) > img.MaxFiles {
		c.selected = slices.Clone(c.selected[len(c.selected)-img.MaxFiles:])
	}
}

// Unselect removes the i-th pending selection. It reports false when i is out of range.
func (c *Controller[D, R]) Unselect(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.selected) {
		return false
	}
	c.selected = slices.Delete(c.selected, i, i+1)
	return true
}

// Selected returns the pending selections in order.
func (c *Controller[D, R]) Selected() []upload.File {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.selected)
}

// Items returns the last list applied by a refresh.
func (c *Controller[D, R]) Items() ([]R, bool) {
	return c.items.Get()
}

// Refresh re-reads the full list. A failure is notified and returned; a refresh that
// resolves after Close is silently dropped.
func (c *Controller[D, R]) Refresh(ctx context.Context) error {
	if _, err := c.items.Load(ctx, c.store.List); err != nil {
		c.notifier.Notify(notify.Error("Error", "Failed to fetch data: "+err.Error()))
		return err
	}
	return nil
}

// Close tears the controller down. In-flight refreshes become no-ops.
func (c *Controller[D, R]) Close() {
	c.items.Close()
}

// Submit validates the draft, uploads pending files, then creates or updates the record.
// A validation failure never reaches the store. An upload failure is notified and the
// record is saved with whatever was uploaded. On success the form is reset and the list
// re-read; on a store failure the draft is kept and the store error returned.
func (c *Controller[D, R]) Submit(ctx context.Context) (R, error) {
	var zero R

	c.mu.Lock()
	draft := c.codec.Normalize(c.draft)
	editing := c.editing
	files := slices.Clone(c.selected)
	c.mu.Unlock()

	if err := c.validate.Struct(draft); err != nil {
		return zero, err
	}

	record := c.codec.Decode(draft, editing)
	if img := c.codec.Images; img != nil {
		img.Set(&record, c.images(ctx, img, draft, editing, files))
	}

	var err error
	verb := "created"
	if editing != nil {
		verb = "updated"
		err = c.store.Update(ctx, &record)
	} else {
		err = c.store.Create(ctx, &record)
	}
	if err != nil {
		c.log.Error().Err(err).Str("action", verb).Msg("store write failed")
		c.notifier.Notify(notify.Error("Error", err.Error()))
		return zero, apperrors.Store("save "+c.codec.Entity, err)
	}

	c.notifier.Notify(notify.Success("Success", fmt.Sprintf("%s %s successfully", c.codec.Entity, verb)))
	c.Reset()
	_ = c.Refresh(ctx)
	return record, nil
}

func (c *Controller[D, R]) images(ctx context.Context, img *Images[D, R], draft D, editing *R, files []upload.File) []string {
	var existing []string
	if editing != nil && img.Existing != nil {
		existing = slices.Clone(img.Existing(*editing))
	}

	urls := existing
	if len(files) > 0 && img.Uploader != nil {
		uploaded, err := img.Uploader.Upload(ctx, existing, files)
		if err != nil {
			c.log.Warn().Err(err).Int("uploaded", len(uploaded)-len(existing)).Msg("upload stopped early")
			c.notifier.Notify(notify.Error("Error uploading images", err.Error()))
		}
		urls = uploaded
	}

	if len(urls) == len(existing) && img.Fallback != nil {
		if pasted := img.Fallback(draft); pasted != "" {
			urls = append(urls, pasted)
		}
	}
	if urls == nil {
		urls = []string{}
	}
	return urls
}

// Delete removes the record with id once confirmer agrees. Without confirmation the store
// is not touched and ErrConfirmationRequired is returned.
func (c *Controller[D, R]) Delete(ctx context.Context, id string, confirmer Confirmer) error {
	prompt := fmt.Sprintf("Are you sure you want to delete this %s?", strings.ToLower(c.codec.Entity))
	if confirmer == nil || !confirmer.Confirm(prompt) {
		return apperrors.ErrConfirmationRequired
	}

	if err := c.store.Delete(ctx, id); err != nil {
		c.log.Error().Err(err).Str("id", id).Msg("store delete failed")
		c.notifier.Notify(notify.Error("Error", err.Error()))
		return apperrors.Store("delete "+c.codec.Entity, err)
	}

	c.notifier.Notify(notify.Success("Success", fmt.Sprintf("%s deleted successfully", c.codec.Entity)))
	if c.isEditing(id) {
		c.Reset()
	}
	_ = c.Refresh(ctx)
	return nil
}

func (c *Controller[D, R]) isEditing(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing != nil && c.codec.Key != nil && c.codec.Key(*c.editing) == id
}
