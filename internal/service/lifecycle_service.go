package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/lumenfeed/console/internal/models"
	"github.com/lumenfeed/console/internal/repository"
	"github.com/lumenfeed/console/internal/transfer"
)

var (
	ErrNoSession        = errors.New("no account session")
	ErrSlotNotFound     = errors.New("no post exists for this slot")
	ErrRegenerating     = errors.New("a regeneration is in flight for this slot")
	ErrSlotBusy         = errors.New("another operation is in flight for this slot")
	ErrStatusConflict   = errors.New("operation not allowed in the post's current status")
	ErrNoPending        = errors.New("no pending regeneration")
	ErrNoImage          = errors.New("post has no image yet")
	ErrAlreadyScheduled = errors.New("post already has a scheduled job")
	ErrAlreadyPublished = errors.New("post is already published")
	ErrEmptyCaption     = errors.New("caption cannot be empty")
)

// LifecycleService drives every post state transition and reconciles
// optimistic local mutation against remote acknowledgement. All reads and
// writes of the post collection go through here.
type LifecycleService interface {
	AttachSession(ctx context.Context, session models.Session)
	DetachSession(ctx context.Context)
	RestoreSession(ctx context.Context) bool
	Session() (models.Session, bool)

	Bootstrap(ctx context.Context) ([]models.Post, error)
	Posts() []models.Post
	Post(slot int) (*models.Post, error)
	AddPost(ctx context.Context, date string) (*models.Post, error)

	Regenerate(ctx context.Context, slot int, instruction string) (*models.PendingRegeneration, error)
	Pending() (*models.PendingRegeneration, bool)
	ApplyPending(ctx context.Context) (*models.Post, error)
	DiscardPending() error

	EditContent(ctx context.Context, slot int, caption, scenePrompt string) (*models.Post, error)
	ToggleApproval(ctx context.Context, slot int) (*models.Post, error)
	Reject(ctx context.Context, slot int) (*models.Post, error)

	PublishNow(ctx context.Context, slot int) (*models.Post, error)
	Schedule(ctx context.Context, slot int, publishAt string) (*models.Post, error)
	CancelScheduled(ctx context.Context, jobID string, slot int) error
	ScheduledJobs(ctx context.Context) ([]models.ScheduledJob, error)
	SyncScheduledJobs(ctx context.Context) error
}

// lifecycleService serializes every per-slot precondition check together with
// the mutation it guards under mu. Remote calls run outside the lock; the
// inflight set keeps the slot exclusive for the duration of the call, the
// server-side analog of the UI disabling a slot's controls while busy.
type lifecycleService struct {
	mu       sync.Mutex
	session  *models.Session
	pending  []models.PendingRegeneration // FIFO, head is the surfaced record
	inflight map[int]bool                 // slots with a remote call outstanding

	posts   *repository.PostCollection
	cache   repository.CacheRepository
	content ContentService
	publish PublishService
}

func NewLifecycleService(
	posts *repository.PostCollection,
	cache repository.CacheRepository,
	content ContentService,
	publish PublishService) LifecycleService {
	return &lifecycleService{
		inflight: make(map[int]bool),
		posts:    posts,
		cache:    cache,
		content:  content,
		publish:  publish,
	}
}

// --- session ---

func (s *lifecycleService) AttachSession(ctx context.Context, session models.Session) {
	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()

	s.cache.SetAccountID(ctx, session.AccountID)
	s.cache.SetHandle(ctx, session.Handle)
	s.cache.SetAppearance(ctx, session.Appearance)
}

func (s *lifecycleService) DetachSession(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.pending = nil
	s.mu.Unlock()

	s.cache.Clear(ctx)
}

// RestoreSession rebuilds the session from the cache, the way the source UI
// picks its identity back up from local storage after a reload.
func (s *lifecycleService) RestoreSession(ctx context.Context) bool {
	accountID, ok := s.cache.AccountID(ctx)
	if !ok || accountID == "" {
		return false
	}
	handle, _ := s.cache.Handle(ctx)
	appearance, _ := s.cache.Appearance(ctx)

	s.mu.Lock()
	s.session = &models.Session{AccountID: accountID, Handle: handle, Appearance: appearance}
	s.mu.Unlock()
	return true
}

func (s *lifecycleService) Session() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return models.Session{}, false
	}
	return *s.session, true
}

func (s *lifecycleService) requireSession() (models.Session, error) {
	session, ok := s.Session()
	if !ok {
		slog.Info(ErrNoSession.Error())
		return models.Session{}, ErrNoSession
	}
	return session, nil
}

// --- loading and creation ---

// Bootstrap loads the persisted collection, falling back to the local cache
// when the remote store is unreachable. When both are empty it asks the
// backend to generate a fresh schedule.
func (s *lifecycleService) Bootstrap(ctx context.Context) ([]models.Post, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	loaded := s.posts.Load(ctx, s.content, session.AccountID)
	if len(loaded) > 0 {
		return loaded, nil
	}

	generated, err := s.content.GenerateSchedule(ctx, session.Appearance)
	if err != nil {
		return nil, err
	}
	s.posts.ReplaceAll(ctx, s.normalize(generated))
	return s.posts.All(), nil
}

func (s *lifecycleService) Posts() []models.Post {
	return s.posts.All()
}

func (s *lifecycleService) Post(slot int) (*models.Post, error) {
	post, ok := s.posts.Find(slot)
	if !ok {
		return nil, ErrSlotNotFound
	}
	return &post, nil
}

func (s *lifecycleService) AddPost(ctx context.Context, date string) (*models.Post, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	post, err := s.content.GeneratePost(ctx, date, session.Appearance)
	if err != nil {
		return nil, err
	}
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.Date == "" {
		post.Date = date
	}

	s.mu.Lock()
	if _, taken := s.posts.Find(post.Slot); post.Slot == 0 || taken {
		post.Slot = s.posts.NextSlot()
	}
	s.posts.Upsert(ctx, *post)
	s.mu.Unlock()
	return post, nil
}

func (s *lifecycleService) normalize(posts []models.Post) []models.Post {
	for i := range posts {
		if posts[i].Status == "" {
			posts[i].Status = models.PostStatusDraft
		}
		if posts[i].Slot == 0 {
			posts[i].Slot = i + 1
		}
	}
	return posts
}

// --- regeneration ---

// Regenerate moves the slot into regenerating, asks the backend for a new
// image and parks the result as a pending record, which is also returned.
// The post's own image is not touched until the user applies the result.
func (s *lifecycleService) Regenerate(ctx context.Context, slot int, instruction string) (*models.PendingRegeneration, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	post, ok := s.posts.Find(slot)
	if !ok {
		s.mu.Unlock()
		return nil, ErrSlotNotFound
	}
	if s.inflight[slot] {
		s.mu.Unlock()
		return nil, ErrSlotBusy
	}
	switch post.Status {
	case models.PostStatusRegenerating:
		s.mu.Unlock()
		return nil, ErrRegenerating
	case models.PostStatusDraft, models.PostStatusRejected:
	default:
		s.mu.Unlock()
		return nil, ErrStatusConflict
	}
	post.Status = models.PostStatusRegenerating
	s.posts.Upsert(ctx, post)
	s.inflight[slot] = true
	s.mu.Unlock()

	res, remoteErr := s.content.Regenerate(ctx, slot, &transfer.RegenerateRequest{
		ScenePrompt: post.RegeneratePrompt(),
		Instruction: instruction,
		AccountID:   session.AccountID,
	})

	// The slot leaves regenerating on resolution, success or not. Re-read
	// instead of writing back the pre-call copy so nothing else is clobbered.
	s.mu.Lock()
	delete(s.inflight, slot)
	if current, ok := s.posts.Find(slot); ok {
		current.Status = models.PostStatusDraft
		s.posts.Upsert(ctx, current)
	}
	s.mu.Unlock()

	if remoteErr != nil {
		return nil, remoteErr
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	pending := models.PendingRegeneration{
		ID:          id,
		Slot:        slot,
		ImageURL:    res.ImageURL,
		ImagePrompt: res.ImagePrompt,
	}
	s.mu.Lock()
	s.pending = append(s.pending, pending)
	s.mu.Unlock()
	return &pending, nil
}

// Pending returns the regeneration record currently awaiting accept/discard.
// Resolved regenerations queue behind it in FIFO order.
func (s *lifecycleService) Pending() (*models.PendingRegeneration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil, false
	}
	head := s.pending[0]
	return &head, true
}

// ApplyPending copies the pending image into the post and mirrors the
// collection immediately; the remote patch follows. A failed patch does not
// roll the local apply back, the kept asset is surfaced alongside the error.
// A slot that is regenerating again refuses the apply and keeps the record
// at the head of the queue.
func (s *lifecycleService) ApplyPending(ctx context.Context) (*models.Post, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil, ErrNoPending
	}
	head := s.pending[0]
	post, ok := s.posts.Find(head.Slot)
	if !ok {
		// Slot is gone, the record can never apply.
		s.pending = s.pending[1:]
		s.mu.Unlock()
		return nil, ErrSlotNotFound
	}
	if post.Status == models.PostStatusRegenerating {
		s.mu.Unlock()
		return nil, ErrRegenerating
	}
	if s.inflight[head.Slot] {
		s.mu.Unlock()
		return nil, ErrSlotBusy
	}
	s.pending = s.pending[1:]
	post.ImageURL = head.ImageURL
	post.ImagePrompt = head.ImagePrompt
	s.posts.Upsert(ctx, post)
	s.inflight[head.Slot] = true
	s.mu.Unlock()

	patchErr := s.content.PatchImage(ctx, session.AccountID, head.Slot, &transfer.PatchImageRequest{
		ImageURL:    head.ImageURL,
		ImagePrompt: head.ImagePrompt,
	})

	s.mu.Lock()
	delete(s.inflight, head.Slot)
	s.mu.Unlock()

	if patchErr != nil {
		// Local state is more current than a failed remote ack.
		slog.Info("image apply not acknowledged by backend", "slot", head.Slot, "error", patchErr.Error())
		return &post, patchErr
	}
	return &post, nil
}

func (s *lifecycleService) DiscardPending() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return ErrNoPending
	}
	s.pending = s.pending[1:]
	return nil
}

// --- content edit ---

// EditContent is pessimistic: the collection is only mutated once the backend
// acknowledges the patch, so captions never silently diverge from the store
// of record.
func (s *lifecycleService) EditContent(ctx context.Context, slot int, caption, scenePrompt string) (*models.Post, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if caption == "" {
		slog.Info(ErrEmptyCaption.Error())
		return nil, ErrEmptyCaption
	}

	s.mu.Lock()
	post, ok := s.posts.Find(slot)
	if !ok {
		s.mu.Unlock()
		return nil, ErrSlotNotFound
	}
	if post.Status == models.PostStatusRegenerating {
		s.mu.Unlock()
		return nil, ErrRegenerating
	}
	if s.inflight[slot] {
		s.mu.Unlock()
		return nil, ErrSlotBusy
	}
	s.inflight[slot] = true
	s.mu.Unlock()

	patchErr := s.content.PatchContent(ctx, session.AccountID, slot, &transfer.PatchContentRequest{
		Caption:     caption,
		ScenePrompt: scenePrompt,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, slot)
	if patchErr != nil {
		return nil, patchErr
	}

	post, ok = s.posts.Find(slot)
	if !ok {
		return nil, ErrSlotNotFound
	}
	post.Caption = caption
	post.ScenePrompt = scenePrompt
	s.posts.Upsert(ctx, post)
	return &post, nil
}

// --- approval ---

func (s *lifecycleService) ToggleApproval(ctx context.Context, slot int) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts.Find(slot)
	if !ok {
		return nil, ErrSlotNotFound
	}
	if s.inflight[slot] {
		return nil, ErrSlotBusy
	}
	switch post.Status {
	case models.PostStatusApproved:
		post.Status = models.PostStatusDraft
	case models.PostStatusDraft, models.PostStatusRejected:
		post.Status = models.PostStatusApproved
	default:
		return nil, ErrStatusConflict
	}
	s.posts.Upsert(ctx, post)
	return &post, nil
}

func (s *lifecycleService) Reject(ctx context.Context, slot int) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts.Find(slot)
	if !ok {
		return nil, ErrSlotNotFound
	}
	if s.inflight[slot] {
		return nil, ErrSlotBusy
	}
	switch post.Status {
	case models.PostStatusDraft, models.PostStatusApproved:
		post.Status = models.PostStatusRejected
	default:
		return nil, ErrStatusConflict
	}
	s.posts.Upsert(ctx, post)
	return &post, nil
}

// --- publishing ---

func (s *lifecycleService) PublishNow(ctx context.Context, slot int) (*models.Post, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	post, ok := s.posts.Find(slot)
	if !ok {
		s.mu.Unlock()
		return nil, ErrSlotNotFound
	}
	if post.Status == models.PostStatusRegenerating {
		s.mu.Unlock()
		return nil, ErrRegenerating
	}
	if post.Status == models.PostStatusPublished {
		s.mu.Unlock()
		return nil, ErrAlreadyPublished
	}
	if post.ImageURL == "" {
		s.mu.Unlock()
		slog.Info(ErrNoImage.Error(), "slot", slot)
		return nil, ErrNoImage
	}
	if s.inflight[slot] {
		s.mu.Unlock()
		return nil, ErrSlotBusy
	}
	s.inflight[slot] = true
	s.mu.Unlock()

	res, remoteErr := s.publish.PublishNow(ctx, &transfer.PublishNowRequest{
		AccountID: session.AccountID,
		ImageURL:  post.ImageURL,
		Caption:   post.Caption,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, slot)
	if remoteErr != nil {
		return nil, remoteErr
	}
	slog.Info("post published", "slot", slot, "media_id", res.MediaID)

	post, ok = s.posts.Find(slot)
	if !ok {
		return nil, ErrSlotNotFound
	}
	post.Status = models.PostStatusPublished
	s.posts.Upsert(ctx, post)
	return &post, nil
}

func (s *lifecycleService) Schedule(ctx context.Context, slot int, publishAt string) (*models.Post, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	post, ok := s.posts.Find(slot)
	if !ok {
		s.mu.Unlock()
		return nil, ErrSlotNotFound
	}
	if post.Status == models.PostStatusRegenerating {
		s.mu.Unlock()
		return nil, ErrRegenerating
	}
	if post.Status == models.PostStatusPublished {
		s.mu.Unlock()
		return nil, ErrAlreadyPublished
	}
	if post.ImageURL == "" {
		s.mu.Unlock()
		slog.Info(ErrNoImage.Error(), "slot", slot)
		return nil, ErrNoImage
	}
	if post.ScheduledAt != "" {
		s.mu.Unlock()
		return nil, ErrAlreadyScheduled
	}
	if s.inflight[slot] {
		s.mu.Unlock()
		return nil, ErrSlotBusy
	}
	s.inflight[slot] = true
	s.mu.Unlock()

	_, remoteErr := s.publish.Schedule(ctx, &transfer.ScheduleRequest{
		AccountID: session.AccountID,
		Posts: []transfer.ScheduleItem{{
			ImageURL:  post.ImageURL,
			Caption:   post.Caption,
			PublishAt: publishAt,
		}},
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, slot)
	if remoteErr != nil {
		return nil, remoteErr
	}

	post, ok = s.posts.Find(slot)
	if !ok {
		return nil, ErrSlotNotFound
	}
	post.ScheduledAt = publishAt
	s.posts.Upsert(ctx, post)
	return &post, nil
}

// CancelScheduled cancels a remote job by its opaque id. Jobs are not mapped
// back to slots here; when the caller knows the slot it passes it so the
// post's scheduled time can be cleared, otherwise only the remote job goes.
func (s *lifecycleService) CancelScheduled(ctx context.Context, jobID string, slot int) error {
	res, err := s.publish.CancelScheduled(ctx, jobID)
	if err != nil {
		return err
	}
	if !res.Cancelled || slot == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts.Find(slot)
	if !ok {
		return nil
	}
	post.ScheduledAt = ""
	s.posts.Upsert(ctx, post)
	return nil
}

func (s *lifecycleService) ScheduledJobs(ctx context.Context) ([]models.ScheduledJob, error) {
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	return s.publish.ListScheduled(ctx, session.AccountID)
}

// SyncScheduledJobs reconciles the remote job list onto the collection: a
// scheduled post whose job is gone and whose publish time has passed has been
// posted by the backend, so it flips to published.
func (s *lifecycleService) SyncScheduledJobs(ctx context.Context) error {
	session, err := s.requireSession()
	if err != nil {
		return err
	}

	jobs, err := s.publish.ListScheduled(ctx, session.AccountID)
	if err != nil {
		return err
	}
	live := make(map[string]bool, len(jobs))
	for _, job := range jobs {
		live[job.RunDate] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, post := range s.posts.All() {
		if post.ScheduledAt == "" || live[post.ScheduledAt] || s.inflight[post.Slot] {
			continue
		}
		if !publishTimePassed(post.ScheduledAt) {
			continue
		}
		post.Status = models.PostStatusPublished
		post.ScheduledAt = ""
		s.posts.Upsert(ctx, post)
		slog.Info("scheduled post went out", "slot", post.Slot)
	}
	return nil
}
