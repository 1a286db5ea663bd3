package personal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/webitel/timecapsule/internal/domain/clock"
	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/service/personal"
	"github.com/webitel/timecapsule/internal/store/storetest"
)

func newTestService(now time.Time) (*personal.Service, *storetest.FakeDraftRepository, *storetest.FakeRecipientRepository) {
	drafts := storetest.NewFakeDraftRepository()
	recipients := storetest.NewFakeRecipientRepository()
	clk := clock.NewManual(now)
	return personal.New(drafts, recipients, clk), drafts, recipients
}

func activePrincipal() user.Principal {
	return user.Principal{ID: uuid.New(), IsActive: true}
}

func TestSaveDraft_CreatesWhenIDNil(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	owner := activePrincipal()
	ctx := context.Background()

	d, err := svc.SaveDraft(ctx, owner, nil, personal.DraftPayload{Title: "  hello  ", Body: "hi"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, d.ID)
	require.Equal(t, owner.ID, d.OwnerID)
	require.Equal(t, "hello", d.Title, "title is trimmed")
	require.False(t, d.CreatedAt.IsZero())
}

func TestSaveDraft_UpdatesExistingOwnedDraft(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	owner := activePrincipal()
	ctx := context.Background()

	created, err := svc.SaveDraft(ctx, owner, nil, personal.DraftPayload{Title: "v1", Body: "hi"})
	require.NoError(t, err)

	updated, err := svc.SaveDraft(ctx, owner, &created.ID, personal.DraftPayload{Title: "v2", Body: "bye"})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "v2", updated.Title)
	require.Equal(t, created.CreatedAt, updated.CreatedAt, "update preserves the original CreatedAt")
}

func TestSaveDraft_ForbiddenWhenNotOwner(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	owner := activePrincipal()
	stranger := activePrincipal()
	ctx := context.Background()

	created, err := svc.SaveDraft(ctx, owner, nil, personal.DraftPayload{Title: "v1"})
	require.NoError(t, err)

	_, err = svc.SaveDraft(ctx, stranger, &created.ID, personal.DraftPayload{Title: "hijacked"})
	require.Error(t, err)
	require.Equal(t, domainerr.KindForbidden, domainerr.KindOf(err))
}

func TestGetDraft_ForbiddenWhenNotOwner(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	owner := activePrincipal()
	stranger := activePrincipal()
	ctx := context.Background()

	created, err := svc.SaveDraft(ctx, owner, nil, personal.DraftPayload{Title: "v1"})
	require.NoError(t, err)

	_, err = svc.GetDraft(ctx, stranger, created.ID)
	require.Error(t, err)
	require.Equal(t, domainerr.KindForbidden, domainerr.KindOf(err))

	got, err := svc.GetDraft(ctx, owner, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}

func TestListDrafts_OnlyReturnsOwnersDrafts(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	owner := activePrincipal()
	other := activePrincipal()
	ctx := context.Background()

	_, err := svc.SaveDraft(ctx, owner, nil, personal.DraftPayload{Title: "mine-1"})
	require.NoError(t, err)
	_, err = svc.SaveDraft(ctx, owner, nil, personal.DraftPayload{Title: "mine-2"})
	require.NoError(t, err)
	_, err = svc.SaveDraft(ctx, other, nil, personal.DraftPayload{Title: "not-mine"})
	require.NoError(t, err)

	list, err := svc.ListDrafts(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestDeleteDraft_ForbiddenWhenNotOwner(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	owner := activePrincipal()
	stranger := activePrincipal()
	ctx := context.Background()

	created, err := svc.SaveDraft(ctx, owner, nil, personal.DraftPayload{Title: "v1"})
	require.NoError(t, err)

	err = svc.DeleteDraft(ctx, stranger, created.ID)
	require.Error(t, err)
	require.Equal(t, domainerr.KindForbidden, domainerr.KindOf(err))

	require.NoError(t, svc.DeleteDraft(ctx, owner, created.ID))

	_, err = svc.GetDraft(ctx, owner, created.ID)
	require.Error(t, err)
	require.Equal(t, domainerr.KindNotFound, domainerr.KindOf(err))
}

func TestAddRecipient_RejectsEmptyName(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	owner := activePrincipal()
	ctx := context.Background()

	_, err := svc.AddRecipient(ctx, owner, personal.RecipientPayload{Name: "   "})
	require.Error(t, err)
	require.Equal(t, domainerr.KindInvalidInput, domainerr.KindOf(err))
}

func TestAddRecipient_AndListRecipients(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	owner := activePrincipal()
	other := activePrincipal()
	ctx := context.Background()

	email := "friend@example.com"
	_, err := svc.AddRecipient(ctx, owner, personal.RecipientPayload{Name: "Friend", Email: &email})
	require.NoError(t, err)
	_, err = svc.AddRecipient(ctx, other, personal.RecipientPayload{Name: "Someone Else"})
	require.NoError(t, err)

	list, err := svc.ListRecipients(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Friend", list[0].Name)
}

func TestDeleteRecipient_ForbiddenWhenNotOwner(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	owner := activePrincipal()
	stranger := activePrincipal()
	ctx := context.Background()

	r, err := svc.AddRecipient(ctx, owner, personal.RecipientPayload{Name: "Friend"})
	require.NoError(t, err)

	err = svc.DeleteRecipient(ctx, stranger, r.ID)
	require.Error(t, err)
	require.Equal(t, domainerr.KindForbidden, domainerr.KindOf(err))

	require.NoError(t, svc.DeleteRecipient(ctx, owner, r.ID))
}
