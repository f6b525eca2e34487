package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/platewise/models"
	"github.com/platewise/platewise/session"
)

func newRegistryWorkflow(bus *session.Bus) *Workflow {
	return New(Config{
		Items:        testCart(),
		RestaurantID: uuid.New(),
		Links:        &fakeLinkSender{},
		Events:       bus,
		Place: func(context.Context, models.CustomerInfo, *models.Session) (uuid.UUID, error) {
			return uuid.New(), nil
		},
		TickInterval: time.Hour,
	})
}

func TestRegistryExpireReclaimsIdleWorkflows(t *testing.T) {
	bus := session.NewBus()
	reg := NewRegistry()
	t.Cleanup(reg.Shutdown)

	w := newRegistryWorkflow(bus)
	reg.Open(w)
	w.SubmitEmail(context.Background(), "guest@example.com")

	// everything last touched before the cutoff is closed and forgotten
	reg.expire(time.Now().Add(time.Minute))

	_, err := reg.Get(w.ID())
	assert.ErrorIs(t, err, ErrNotFound)

	// the subscription is gone with the workflow
	bus.Publish(session.Event{
		Kind:    session.SignedIn,
		Session: &models.Session{UserID: uuid.New(), Email: "guest@example.com"},
	})
	assert.Equal(t, StepWaiting, w.State().Step)
}

func TestRegistryExpireSparesActiveWorkflows(t *testing.T) {
	reg := NewRegistry()
	t.Cleanup(reg.Shutdown)

	w := newRegistryWorkflow(session.NewBus())
	reg.Open(w)

	// a lookup counts as activity
	_, err := reg.Get(w.ID())
	require.NoError(t, err)

	reg.expire(time.Now().Add(-time.Minute))

	_, err = reg.Get(w.ID())
	assert.NoError(t, err)
}

func TestRegistryShutdownClosesEverything(t *testing.T) {
	reg := NewRegistry()

	w := newRegistryWorkflow(session.NewBus())
	reg.Open(w)

	reg.Shutdown()

	_, err := reg.Get(w.ID())
	assert.ErrorIs(t, err, ErrNotFound)

	// idempotent
	reg.Shutdown()
}
