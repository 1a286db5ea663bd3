package capsule

import (
	"context"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	domaincapsule "github.com/webitel/timecapsule/internal/domain/capsule"
	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/store"
)

// Participant is the lightweight sender/receiver display projection added
// alongside a bare participant UUID.
type Participant struct {
	ID       uuid.UUID
	Username string
	FullName string
}

// EnrichedView is GetCapsule's response shape: a View plus resolved
// sender/receiver participant info.
type EnrichedView struct {
	domaincapsule.View
	Sender   Participant
	Receiver Participant
}

// EnrichedCapsule is a single List row: a Capsule plus resolved
// sender/receiver participant info.
type EnrichedCapsule struct {
	domaincapsule.Capsule
	Sender   Participant
	Receiver Participant
}

// EnrichedPage is List's response shape.
type EnrichedPage struct {
	Items []EnrichedCapsule
	Total int
}

// EnrichingFacade decorates Facade with participant enrichment on
// get_capsule and list, the way the teacher wraps Enricher with
// enricherMiddleware: a thin layer around the base type that adds the
// cross-cutting behavior without the base type knowing about it. Every
// other CapsuleFacade method is promoted unchanged from the embedded
// *Facade.
type EnrichingFacade struct {
	*Facade
	users  store.UserRepository
	cache  *lru.Cache[uuid.UUID, Participant]
	logger *zap.Logger
}

// NewEnrichingFacade wires a UserRepository lookup, cached the way the
// teacher's PeerEnricher caches resolved peers, in front of base.
func NewEnrichingFacade(base *Facade, users store.UserRepository, logger *zap.Logger) *EnrichingFacade {
	cache, _ := lru.New[uuid.UUID, Participant](10000)
	return &EnrichingFacade{Facade: base, users: users, cache: cache, logger: logger}
}

func (f *EnrichingFacade) resolve(ctx context.Context, id uuid.UUID) Participant {
	if id == uuid.Nil {
		return Participant{}
	}
	if cached, ok := f.cache.Get(id); ok {
		return cached
	}
	u, err := f.users.Get(ctx, id)
	if err != nil {
		f.logger.Warn("PEER_ENRICHMENT_FAILED", zap.String("user_id", id.String()), zap.Error(err))
		return Participant{ID: id}
	}
	p := Participant{ID: u.ID, Username: u.Username, FullName: u.FullName}
	f.cache.Add(id, p)
	return p
}

// GetCapsule enriches the base Facade's View with resolved participants.
func (f *EnrichingFacade) GetCapsule(ctx context.Context, principal user.Principal, id uuid.UUID) (EnrichedView, error) {
	view, err := f.Facade.GetCapsule(ctx, principal, id)
	if err != nil {
		return EnrichedView{}, err
	}
	return EnrichedView{
		View:     view,
		Sender:   f.resolve(ctx, view.SenderID),
		Receiver: f.resolve(ctx, view.ReceiverID),
	}, nil
}

// List enriches every item of the base Facade's Page with resolved participants.
func (f *EnrichingFacade) List(ctx context.Context, principal user.Principal, box Box, stateFilter *domaincapsule.State, page, pageSize int) (EnrichedPage, error) {
	pg, err := f.Facade.List(ctx, principal, box, stateFilter, page, pageSize)
	if err != nil {
		return EnrichedPage{}, err
	}
	items := make([]EnrichedCapsule, 0, len(pg.Items))
	for _, c := range pg.Items {
		items = append(items, EnrichedCapsule{
			Capsule:  c,
			Sender:   f.resolve(ctx, c.SenderID),
			Receiver: f.resolve(ctx, c.ReceiverID),
		})
	}
	return EnrichedPage{Items: items, Total: pg.Total}, nil
}
