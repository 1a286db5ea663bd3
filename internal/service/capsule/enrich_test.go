package capsule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domaincapsule "github.com/webitel/timecapsule/internal/domain/capsule"
	dclock "github.com/webitel/timecapsule/internal/domain/clock"
	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/obs"
	"github.com/webitel/timecapsule/internal/store/storetest"
)

func newTestEnrichingFacade(t *testing.T, now time.Time) (*EnrichingFacade, *storetest.FakeUserRepository) {
	t.Helper()
	repo := storetest.NewFakeCapsuleRepository()
	users := storetest.NewFakeUserRepository()
	clk := dclock.NewManual(now)
	sm := domaincapsule.NewStateMachine(domaincapsule.DefaultParams())
	base := New(repo, sm, clk, obs.NewTracer())
	return NewEnrichingFacade(base, users, zaptest.NewLogger(t)), users
}

func TestEnrichingFacade_GetCapsuleResolvesParticipants(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f, users := newTestEnrichingFacade(t, t0)
	ctx := context.Background()

	sender, err := users.Create(ctx, user.User{ID: uuid.New(), Username: "alice", FullName: "Alice A", Email: "alice@example.com", IsActive: true})
	require.NoError(t, err)
	receiver, err := users.Create(ctx, user.User{ID: uuid.New(), Username: "bob", FullName: "Bob B", Email: "bob@example.com", IsActive: true})
	require.NoError(t, err)

	principal := user.Principal{ID: sender.ID, IsActive: true}
	c, err := f.CreateCapsule(ctx, principal, CreatePayload{ReceiverID: receiver.ID, Title: "t", Body: "b"})
	require.NoError(t, err)

	view, err := f.GetCapsule(ctx, principal, c.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", view.Sender.Username)
	require.Equal(t, "Alice A", view.Sender.FullName)
	require.Equal(t, "bob", view.Receiver.Username)
	require.Equal(t, "Bob B", view.Receiver.FullName)
}

func TestEnrichingFacade_ListResolvesParticipants(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f, users := newTestEnrichingFacade(t, t0)
	ctx := context.Background()

	sender, err := users.Create(ctx, user.User{ID: uuid.New(), Username: "alice", FullName: "Alice A", Email: "alice@example.com", IsActive: true})
	require.NoError(t, err)
	receiver, err := users.Create(ctx, user.User{ID: uuid.New(), Username: "bob", FullName: "Bob B", Email: "bob@example.com", IsActive: true})
	require.NoError(t, err)

	principal := user.Principal{ID: sender.ID, IsActive: true}
	_, err = f.CreateCapsule(ctx, principal, CreatePayload{ReceiverID: receiver.ID, Title: "t", Body: "b"})
	require.NoError(t, err)

	page, err := f.List(ctx, principal, BoxOutbox, nil, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "alice", page.Items[0].Sender.Username)
	require.Equal(t, "bob", page.Items[0].Receiver.Username)
}

// TestEnrichingFacade_UnknownParticipantFallsBackToBareID mirrors the
// teacher's PeerEnricher graceful-fallback behavior: a lookup failure never
// fails the enclosing operation, it just yields an unresolved participant.
func TestEnrichingFacade_UnknownParticipantFallsBackToBareID(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f, users := newTestEnrichingFacade(t, t0)
	ctx := context.Background()

	sender, err := users.Create(ctx, user.User{ID: uuid.New(), Username: "alice", FullName: "Alice A", Email: "alice@example.com", IsActive: true})
	require.NoError(t, err)
	unknownReceiver := uuid.New()

	principal := user.Principal{ID: sender.ID, IsActive: true}
	c, err := f.CreateCapsule(ctx, principal, CreatePayload{ReceiverID: unknownReceiver, Title: "t", Body: "b"})
	require.NoError(t, err)

	view, err := f.GetCapsule(ctx, principal, c.ID)
	require.NoError(t, err)
	require.Equal(t, unknownReceiver, view.Receiver.ID)
	require.Empty(t, view.Receiver.Username)
}
