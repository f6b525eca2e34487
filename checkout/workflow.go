package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/platewise/platewise/models"
	"github.com/platewise/platewise/session"
)

// Step is the authentication sub-state of a checkout.
type Step string

const (
	StepEmail   Step = "email"
	StepWaiting Step = "waiting"
	StepDetails Step = "details"
	// StepAuthenticated marks a checkout whose order has been handed to the
	// placement callback; details serves the interactive role.
	StepAuthenticated Step = "authenticated"
)

const defaultCooldownSeconds = 60

// LinkSender dispatches a magic link. Satisfied by *session.Service.
type LinkSender interface {
	SignInWithLink(ctx context.Context, req session.LinkRequest) error
}

// Subscriber registers an auth-change observer and returns its disposer.
type Subscriber interface {
	Subscribe(fn func(session.Event)) func()
}

// PlaceFunc receives the collected customer info and the verified identity
// (or nil) and returns the id of the persisted order. All persistence is
// delegated to it.
type PlaceFunc func(ctx context.Context, info models.CustomerInfo, sess *models.Session) (uuid.UUID, error)

type Config struct {
	Items        []models.CartItem
	RestaurantID uuid.UUID

	// Session is an already-active session at mount, if any.
	Session *models.Session
	// RedirectEmail is the email carried by a magic-link redirect; when set
	// the workflow mounts directly in the waiting step.
	RedirectEmail string

	Links  LinkSender
	Events Subscriber
	Place  PlaceFunc

	CooldownSeconds int
	TickInterval    time.Duration
}

// Workflow drives a customer from an unauthenticated cart to a submitted
// order, gated by verified email ownership.
type Workflow struct {
	id  uuid.UUID
	cfg Config

	mu       sync.Mutex
	step     Step
	email    string
	draft    models.CustomerInfo
	sess     *models.Session
	cooldown int
	message  string
	placed   bool
	orderID  uuid.UUID
	touched  time.Time

	unsubscribe func()
	done        chan struct{}
	closeOnce   sync.Once
}

// State is a snapshot handed to the HTTP layer. OrderID is set once the
// order has been placed.
type State struct {
	ID       uuid.UUID  `json:"id"`
	Step     Step       `json:"step"`
	Email    string     `json:"email,omitempty"`
	Cooldown int        `json:"cooldown"`
	Message  string     `json:"message,omitempty"`
	Total    float64    `json:"total"`
	Placed   bool       `json:"placed"`
	OrderID  *uuid.UUID `json:"order_id,omitempty"`
}

func New(cfg Config) *Workflow {
	if cfg.CooldownSeconds <= 0 {
		cfg.CooldownSeconds = defaultCooldownSeconds
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}

	w := &Workflow{
		id:      uuid.New(),
		cfg:     cfg,
		step:    StepEmail,
		done:    make(chan struct{}),
		touched: time.Now(),
	}

	switch {
	case cfg.Session != nil:
		w.sess = cfg.Session
		w.step = StepDetails
	case cfg.RedirectEmail != "":
		// the link for this email was dispatched before the redirect
		w.email = strings.TrimSpace(cfg.RedirectEmail)
		w.step = StepWaiting
		w.cooldown = cfg.CooldownSeconds
	}

	return w
}

// Start registers the auth-change subscription and the cooldown ticker.
// Close must be called on every exit path to release both.
func (w *Workflow) Start() {
	if w.cfg.Events != nil {
		w.unsubscribe = w.cfg.Events.Subscribe(w.handleEvent)
	}
	go w.run()
}

func (w *Workflow) Close() {
	w.closeOnce.Do(func() {
		if w.unsubscribe != nil {
			w.unsubscribe()
		}
		close(w.done)
	})
}

func (w *Workflow) ID() uuid.UUID { return w.id }

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	state := State{
		ID:       w.id,
		Step:     w.step,
		Email:    w.email,
		Cooldown: w.cooldown,
		Message:  w.message,
		Total:    w.totalLocked(),
		Placed:   w.placed,
	}
	if w.placed {
		orderID := w.orderID
		state.OrderID = &orderID
	}
	return state
}

// touch marks the workflow as recently used so the registry's idle sweep
// does not reclaim it.
func (w *Workflow) touch() {
	w.mu.Lock()
	w.touched = time.Now()
	w.mu.Unlock()
}

func (w *Workflow) lastTouched() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.touched
}

// Total is the sum of unit price times quantity over the cart.
func (w *Workflow) Total() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.totalLocked()
}

func (w *Workflow) totalLocked() float64 {
	var total float64
	for _, item := range w.cfg.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// SubmitEmail handles the email step. A session already matching the email
// skips the magic link entirely; otherwise exactly one link is dispatched
// and the workflow enters waiting with a fresh cooldown.
func (w *Workflow) SubmitEmail(ctx context.Context, email string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touched = time.Now()

	if w.step != StepEmail {
		return
	}

	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		w.message = "email is required"
		return
	}
	w.message = ""

	if w.sess != nil && strings.EqualFold(w.sess.Email, trimmed) {
		w.email = trimmed
		w.step = StepDetails
		return
	}

	if err := w.sendLinkLocked(ctx, trimmed); err != nil {
		logrus.Errorf("failed to send magic link, error: %v", err)
		w.message = "could not send the sign-in link, please try again"
		return
	}

	w.email = trimmed
	w.step = StepWaiting
	w.cooldown = w.cfg.CooldownSeconds
}

// Resend is a no-op while the cooldown is running.
func (w *Workflow) Resend(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touched = time.Now()

	if w.step != StepWaiting || w.cooldown > 0 {
		return
	}

	if err := w.sendLinkLocked(ctx, w.email); err != nil {
		logrus.Errorf("failed to resend magic link, error: %v", err)
		w.message = "could not resend the sign-in link, please try again"
		return
	}

	w.message = ""
	w.cooldown = w.cfg.CooldownSeconds
}

func (w *Workflow) sendLinkLocked(ctx context.Context, email string) error {
	return w.cfg.Links.SignInWithLink(ctx, session.LinkRequest{
		Email:      email,
		RedirectTo: "/checkout/" + w.id.String(),
		CreateUser: true,
		Metadata:   map[string]string{"checkout_id": w.id.String()},
	})
}

// Back returns to the email step. Leaving details discards the draft.
func (w *Workflow) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touched = time.Now()

	switch w.step {
	case StepWaiting:
		w.step = StepEmail
		w.cooldown = 0
	case StepDetails:
		w.draft = models.CustomerInfo{}
		w.step = StepEmail
	}
	w.message = ""
}

// SubmitDetails validates the draft and, when complete, invokes the
// placement callback exactly once for this user action.
func (w *Workflow) SubmitDetails(ctx context.Context, info models.CustomerInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touched = time.Now()

	if w.step != StepDetails || w.placed {
		return
	}

	var errs *multierror.Error
	if strings.TrimSpace(info.Name) == "" {
		errs = multierror.Append(errs, errRequired("name"))
	}
	if strings.TrimSpace(info.Phone) == "" {
		errs = multierror.Append(errs, errRequired("phone"))
	}
	if strings.TrimSpace(info.TableNumber) == "" {
		errs = multierror.Append(errs, errRequired("table number"))
	}
	if err := errs.ErrorOrNil(); err != nil {
		w.message = err.Error()
		return
	}

	w.draft = info
	if w.draft.Email == "" {
		w.draft.Email = w.email
		if w.draft.Email == "" && w.sess != nil {
			w.draft.Email = w.sess.Email
		}
	}

	orderID, err := w.cfg.Place(ctx, w.draft, w.sess)
	if err != nil {
		logrus.Errorf("order placement failed, error: %v", err)
		w.message = "could not place the order, please try again"
		return
	}

	w.message = ""
	w.placed = true
	w.orderID = orderID
	w.step = StepAuthenticated
}

func (w *Workflow) handleEvent(e session.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch e.Kind {
	case session.SignedIn:
		if w.step != StepWaiting || e.Session == nil {
			return
		}
		// a link carries the id of the checkout that requested it; a
		// sign-in scoped to another checkout must not advance this one
		if checkoutID, ok := e.Metadata["checkout_id"]; ok && checkoutID != w.id.String() {
			return
		}
		if !strings.EqualFold(e.Session.Email, w.email) {
			return
		}
		w.sess = e.Session
		w.step = StepDetails
		w.cooldown = 0
		w.message = ""
	case session.SignedOut:
		// only the owning customer's sign-out resets the checkout
		if w.sess == nil || e.Session == nil || w.sess.UserID != e.Session.UserID {
			return
		}
		w.sess = nil
		w.draft = models.CustomerInfo{}
		w.step = StepEmail
		w.cooldown = 0
	}
}

func (w *Workflow) run() {
	ticker := time.NewTicker(w.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *Workflow) tick() {
	w.mu.Lock()
	if w.cooldown > 0 {
		w.cooldown--
	}
	w.mu.Unlock()
}

type errRequired string

func (e errRequired) Error() string { return string(e) + " is required" }
