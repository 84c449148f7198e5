package workerpool

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/narvesen/supportbot/internal/apperr"
	"github.com/narvesen/supportbot/store"
)

// DefaultGroupLimit is GROUP_LIMIT from spec.md §4.2.
const DefaultGroupLimit = 45

// connectRate throttles MTProto connection attempts across all identities
// so a burst of escalations can't trip Telegram's own flood limits.
const connectRate = 1 * time.Second

// Pool enumerates the worker identities available for escalation and
// janitorial work (spec.md §4.2).
type Pool struct {
	identities []Identity
	store      *store.Store
	proxy      ProxyConfig
	groupLimit int
	rng        *rand.Rand
	limiter    *rate.Limiter
}

func New(identities []Identity, st *store.Store, proxyCfg ProxyConfig, groupLimit int) *Pool {
	if groupLimit <= 0 {
		groupLimit = DefaultGroupLimit
	}
	return &Pool{
		identities: identities,
		store:      st,
		proxy:      proxyCfg,
		groupLimit: groupLimit,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		limiter:    rate.NewLimiter(rate.Every(connectRate), 1),
	}
}

// AcquireForGroupCreation implements spec.md §4.2's four-step algorithm:
// shuffle for fairness, skip identities at or over GROUP_LIMIT, connect
// through the identity's sticky proxy, and return the first that succeeds.
func (p *Pool) AcquireForGroupCreation(ctx context.Context) (*Session, error) {
	order := p.rng.Perm(len(p.identities))

	for _, idx := range order {
		identity := p.identities[idx]

		count, err := p.store.CountGroupsCreatedBy(ctx, identity.Name)
		if err != nil {
			slog.Warn("workerpool: failed to count groups", "identity", identity.Name, "error", err)
			continue
		}
		if count >= p.groupLimit {
			continue
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		session, err := connect(ctx, p.proxy, identity)
		if err != nil {
			slog.Warn("workerpool: identity unavailable", "identity", identity.Name, "error", err)
			continue
		}
		return session, nil
	}

	return nil, apperr.NewResourceExhausted("worker identity")
}

// ByName returns identityName's client without capacity checks, for use
// by the janitor, which must delete a group with the same identity that
// created it (spec.md §4.2/§4.7).
func (p *Pool) ByName(ctx context.Context, identityName string) (*Session, error) {
	for _, identity := range p.identities {
		if identity.Name == identityName {
			if err := p.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			return connect(ctx, p.proxy, identity)
		}
	}
	return nil, errors.Errorf("unknown worker identity %q", identityName)
}
