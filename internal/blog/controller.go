// Package blog holds the client-side state of the blog (post list, form draft and
// edit target) and reconciles it with the REST backend.
package blog

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/minimal-blog/internal/model"
)

var blogLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	blogLogger = l
}

// ErrStaleForm is reported when a form was filled in for a different edit
// target than the current one.
var ErrStaleForm = errors.New("form does not match the post under edit")

// Backend is the subset of the REST client the controller needs.
type Backend interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	CreatePost(ctx context.Context, draft model.Draft) (*model.Post, error)
	UpdatePost(ctx context.Context, id model.PostID, draft model.Draft) (*model.Post, error)
	DeletePost(ctx context.Context, id model.PostID) error
}

// State is a snapshot of the controller. Posts is a copy and may be kept.
type State struct {
	Posts      []model.Post
	Draft      model.Draft
	EditTarget model.EditTarget
}

func (s State) Editing() bool {
	return !s.EditTarget.IsNone()
}

// Controller owns the post list, the draft and the edit target. It is safe for
// concurrent use; the lock is never held across a backend call.
type Controller struct {
	backend  Backend
	notifier Notifier

	mu     sync.Mutex
	posts  []model.Post
	draft  model.Draft
	target model.EditTarget

	// fetchSeq numbers refreshes as they start; appliedSeq is the newest one whose
	// result made it into posts.
	fetchSeq   uint64
	appliedSeq uint64
}

// NewController returns a controller with an empty list, an empty draft and no
// edit target. A nil notifier drops notifications.
func NewController(backend Backend, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Controller{
		backend:  backend,
		notifier: notifier,
		posts:    []model.Post{},
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	posts := make([]model.Post, len(c.posts))
	copy(posts, c.posts)
	return State{
		Posts:      posts,
		Draft:      c.draft,
		EditTarget: c.target,
	}
}

// Post looks id up in the current list.
func (c *Controller) Post(id model.PostID) (model.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.posts {
		if p.ID == id {
			return p, true
		}
	}
	return model.Post{}, false
}

// Refresh replaces the list with the backend's. On failure the list is kept and a
// FetchFailed notification is emitted.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.mu.Unlock()

	posts, err := c.backend.ListPosts(ctx)
	if err != nil {
		blogLogger.Error().Err(err).Uint64("seq", seq).Msg("Failed to fetch posts")
		c.notify(FetchFailed, err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.appliedSeq {
		blogLogger.Debug().
			Uint64("seq", seq).
			Uint64("applied", c.appliedSeq).
			Msg("Discarding stale post list")
		return nil
	}
	c.appliedSeq = seq
	c.posts = posts
	if c.posts == nil {
		c.posts = []model.Post{}
	}

	if id, editing := c.target.PostID(); editing && !containsPost(c.posts, id) {
		blogLogger.Info().Str("post", string(id)).Msg("Post under edit no longer exists, leaving edit mode")
		c.target = model.NoEditTarget()
	}

	blogLogger.Debug().Int("count", len(c.posts)).Uint64("seq", seq).Msg("Post list refreshed")
	return nil
}

// Submit records draft and sends it as a create, or as an update of the post
// under edit. On success the form is reset and the list refreshed; the refresh
// outcome is reported through its own notification and does not fail Submit.
// On failure the draft and edit target stay so the user can retry.
func (c *Controller) Submit(ctx context.Context, draft model.Draft) error {
	return c.submit(ctx, draft, nil)
}

// SubmitFor is Submit for a form rendered while formTarget was the edit target.
// If the edit target has moved on since, nothing is sent: the draft is kept and
// the failure is reported with the form's own verb.
func (c *Controller) SubmitFor(ctx context.Context, formTarget model.EditTarget, draft model.Draft) error {
	return c.submit(ctx, draft, &formTarget)
}

func (c *Controller) submit(ctx context.Context, draft model.Draft, formTarget *model.EditTarget) error {
	c.mu.Lock()
	c.draft = draft
	target := c.target
	c.mu.Unlock()

	if formTarget != nil && *formTarget != target {
		kind := CreateFailed
		if !formTarget.IsNone() {
			kind = UpdateFailed
		}
		blogLogger.Warn().
			Stringer("form", *formTarget).
			Stringer("target", target).
			Msg("Rejecting submit from a stale form")
		c.notify(kind, ErrStaleForm)
		return ErrStaleForm
	}

	id, editing := target.PostID()

	var err error
	if editing {
		_, err = c.backend.UpdatePost(ctx, id, draft)
	} else {
		_, err = c.backend.CreatePost(ctx, draft)
	}

	if err != nil {
		kind := CreateFailed
		if editing {
			kind = UpdateFailed
		}
		blogLogger.Error().Err(err).Stringer("target", target).Msg("Failed to submit post")
		c.notify(kind, err)
		return err
	}

	kind := Created
	if editing {
		kind = Updated
		blogLogger.Info().Str("post", string(id)).Msg("Post updated")
	} else {
		blogLogger.Info().Str("title", draft.Title).Msg("Post created")
	}
	c.notify(kind, nil)

	c.mu.Lock()
	// Leave anything the user started in the meantime alone
	if c.draft == draft {
		c.draft = model.Draft{}
	}
	if c.target == target {
		c.target = model.NoEditTarget()
	}
	c.mu.Unlock()

	_ = c.Refresh(ctx)
	return nil
}

// BeginEdit switches the form to editing post and fills the draft from it.
func (c *Controller) BeginEdit(post model.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = model.EditTargetFor(post.ID)
	c.draft = model.DraftFromPost(post)
}

// UpdateDraft records what the user typed without sending it.
func (c *Controller) UpdateDraft(draft model.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft
}

// CancelEdit goes back to creating with an empty form.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = model.NoEditTarget()
	c.draft = model.Draft{}
}

// Remove deletes post id and refreshes on success. A failed delete changes nothing
// and does not refresh.
func (c *Controller) Remove(ctx context.Context, id model.PostID) error {
	if err := c.backend.DeletePost(ctx, id); err != nil {
		blogLogger.Error().Err(err).Str("post", string(id)).Msg("Failed to delete post")
		c.notify(DeleteFailed, err)
		return err
	}

	blogLogger.Info().Str("post", string(id)).Msg("Post deleted")
	c.notify(Deleted, nil)

	_ = c.Refresh(ctx)
	return nil
}

func (c *Controller) notify(kind Kind, err error) {
	c.notifier.Notify(Notification{Kind: kind, Err: err})
}

func containsPost(posts []model.Post, id model.PostID) bool {
	for _, p := range posts {
		if p.ID == id {
			return true
		}
	}
	return false
}
