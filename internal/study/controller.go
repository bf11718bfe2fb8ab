package study

import (
	"context"
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/models"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	// ErrMissingCredential is the configuration error reported when no AI API key is available.
	ErrMissingCredential = errors.NewSentinel(
		"API key is not set. Please configure it to use the AI features")
	// ErrEmptyInput is the validation error for a blank subject or topic.
	ErrEmptyInput = errors.NewSentinel("subject and topic must not be empty")
	// ErrNotReady is returned when a tool is selected before study materials are available.
	ErrNotReady = errors.NewSentinel("study materials are not available")
	// ErrUnknownTool is returned for a tool that is not one of [models.StudyTools].
	ErrUnknownTool = errors.NewSentinel("unknown study tool")
)

const (
	DefaultTimeout = 60 * time.Second
	unknownError   = "An unknown error occurred."
)

// Generator produces study materials. It is implemented by [ai.Client].
type Generator interface {
	GenerateStudyMaterials(ctx context.Context, subject, topic string) (models.StudyMaterials, error)
	HasCredential() bool
}

// Recorder is notified of successfully generated study materials, e.g., to keep a history.
type Recorder interface {
	Record(ctx context.Context, subject, topic string, materials models.StudyMaterials) error
}

// Controller owns the lifecycle of a single user's study request: idle, loading, success or failure.
//
// At most one request is in flight. A new Submit supersedes the previous request and Reset abandons it. Every
// issued request gets a sequence number, and a response is only applied when its number is still the latest one.
type Controller struct {
	generator Generator
	recorder  Recorder
	logger    *slog.Logger
	timeout   time.Duration

	mu        sync.Mutex
	seq       uint64
	status    models.RequestStatus
	subject   string
	topic     string
	materials *models.StudyMaterials
	message   string
	tool      models.StudyTool
	// cancel aborts the in-flight generator call.
	cancel context.CancelFunc
	// changed is closed and replaced on every transition to wake up waiters.
	changed   chan struct{}
	lastTouch time.Time
}

type Option func(*Controller)

// WithRecorder records successful generations.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithTimeout bounds each generator call. Non-positive values keep [DefaultTimeout].
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewController(generator Generator, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{ //nolint:exhaustruct // zero values are the idle state
		generator: generator,
		logger:    logger,
		timeout:   DefaultTimeout,
		status:    models.StatusIdle,
		changed:   make(chan struct{}),
		lastTouch: time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit issues a new request for study materials and returns its sequence number.
//
// The state is Loading when Submit returns and the generator runs in the background. Blank input returns
// [ErrEmptyInput] and a missing credential returns [ErrMissingCredential], both without changing the state.
func (c *Controller) Submit(ctx context.Context, subject, topic string) (uint64, error) {
	subject = strings.TrimSpace(subject)
	topic = strings.TrimSpace(topic)
	if subject == "" || topic == "" {
		return 0, ErrEmptyInput
	}
	if !c.generator.HasCredential() {
		return 0, ErrMissingCredential
	}

	// The generator outlives the HTTP request that submitted it, but keeps its logging attributes.
	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)

	c.mu.Lock()
	c.abandonLocked()
	c.seq++
	seq := c.seq
	c.status = models.StatusLoading
	c.subject = ""
	c.topic = ""
	c.materials = nil
	c.message = ""
	c.tool = models.ToolNone
	c.cancel = cancel
	c.notifyLocked()
	c.mu.Unlock()

	c.logger.LogAttrs(ctx, slog.LevelInfo, "study request submitted",
		slog.Uint64("seq", seq), slog.String("subject", subject), slog.String("topic", topic))

	go c.generate(genCtx, cancel, seq, models.StudyRequest{Subject: subject, Topic: topic})

	return seq, nil
}

func (c *Controller) generate(ctx context.Context, cancel context.CancelFunc, seq uint64, req models.StudyRequest) {
	defer cancel()
	start := time.Now()
	materials, err := c.generator.GenerateStudyMaterials(ctx, req.Subject, req.Topic)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.LogAttrs(ctx, slog.LevelInfo, "discarding stale study response",
			slog.Uint64("seq", seq), slog.Duration("duration", time.Since(start)))
		return
	}
	c.cancel = nil
	if err != nil {
		c.status = models.StatusFailure
		c.message = userMessage(err)
		c.notifyLocked()
		c.mu.Unlock()
		c.logger.LogAttrs(ctx, slog.LevelError, "study request failed",
			slog.Uint64("seq", seq), slog.Duration("duration", time.Since(start)), errors.SlogError(err))
		return
	}
	c.status = models.StatusSuccess
	c.subject = req.Subject
	c.topic = req.Topic
	c.materials = &materials
	c.notifyLocked()
	c.mu.Unlock()

	c.logger.LogAttrs(ctx, slog.LevelInfo, "study request succeeded",
		slog.Uint64("seq", seq), slog.Duration("duration", time.Since(start)))

	if c.recorder != nil {
		if err = c.recorder.Record(ctx, req.Subject, req.Topic, materials); err != nil {
			c.logger.LogAttrs(ctx, slog.LevelError, "could not record study materials", errors.SlogError(err))
		}
	}
}

// userMessage maps a generator error to the message shown to the user. It is never empty.
func userMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "The AI service took too long to answer. Please try again."
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return unknownError
	}
	return msg
}

// SelectTool sets the displayed view. It is only allowed while study materials are shown.
func (c *Controller) SelectTool(tool models.StudyTool) error {
	if !tool.Valid() {
		return errors.Wrap(ErrUnknownTool, "select tool", slog.String("tool", tool.String()))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastTouch = time.Now()
	if c.status != models.StatusSuccess {
		return ErrNotReady
	}
	c.tool = tool
	c.notifyLocked()
	return nil
}

// Reset returns to Idle and forgets everything. An in-flight request is abandoned and its result discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abandonLocked()
	c.seq++
	c.status = models.StatusIdle
	c.subject = ""
	c.topic = ""
	c.materials = nil
	c.message = ""
	c.tool = models.ToolNone
	c.notifyLocked()
}

// Load shows previously generated study materials without calling the generator. An in-flight request is abandoned.
func (c *Controller) Load(subject, topic string, materials models.StudyMaterials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abandonLocked()
	c.seq++
	c.status = models.StatusSuccess
	c.subject = subject
	c.topic = topic
	materials = materials.Clone()
	c.materials = &materials
	c.message = ""
	c.tool = models.ToolNone
	c.notifyLocked()
}

// Snapshot returns a consistent copy of the current state.
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		Seq:       c.seq,
		Status:    c.status,
		Subject:   c.subject,
		Topic:     c.topic,
		Materials: nil,
		Message:   c.message,
		Tool:      c.tool,
		Banner:    "",
	}
	if c.materials != nil {
		materials := c.materials.Clone()
		snap.Materials = &materials
	}
	if !c.generator.HasCredential() {
		snap.Banner = ErrMissingCredential.Error() + "."
	}
	return snap
}

// Wait blocks until request seq is no longer loading, because it settled or was superseded, and returns the state
// at that moment.
func (c *Controller) Wait(ctx context.Context, seq uint64) (models.Snapshot, error) {
	for {
		c.mu.Lock()
		if c.seq != seq || c.status != models.StatusLoading {
			snap := c.snapshotLocked()
			c.mu.Unlock()
			return snap, nil
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return models.Snapshot{}, errors.Wrap(ctx.Err(), "wait for study request", slog.Uint64("seq", seq))
		case <-changed:
		}
	}
}

// idleSince reports when the controller was last used.
func (c *Controller) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastTouch
}

func (c *Controller) touch() {
	c.mu.Lock()
	c.lastTouch = time.Now()
	c.mu.Unlock()
}

func (c *Controller) abandonLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) notifyLocked() {
	c.lastTouch = time.Now()
	close(c.changed)
	c.changed = make(chan struct{})
}
