package workerpool

import (
	"context"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/dcs"
	"github.com/gotd/td/tg"
	"github.com/pkg/errors"
)

// Session is a connected, authorized worker-identity client, returned by
// Pool.AcquireForGroupCreation/ByName. Callers must call Release on every
// exit path (spec.md §4.2/§5).
type Session struct {
	Identity Identity
	API      *tg.Client
	Release  func()
}

// connect opens identity's on-disk session through its sticky proxy and
// verifies it is still an authorized user, per spec.md §4.2 step 3. The
// returned Session.Release disconnects the client; it is always safe to
// call exactly once.
func connect(ctx context.Context, proxyCfg ProxyConfig, identity Identity) (*Session, error) {
	dialer, err := dialerFor(proxyCfg, identity.Name)
	if err != nil {
		return nil, err
	}

	client := telegram.NewClient(identity.APIID, identity.APIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: identity.SessionPath},
		Resolver:       dcs.Plain(dcs.PlainOptions{Dial: dialer.DialContext}),
	})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	ready := make(chan struct{})

	go func() {
		done <- client.Run(runCtx, func(ctx context.Context) error {
			status, err := client.Auth().Status(ctx)
			if err != nil {
				return errors.Wrap(err, "auth status")
			}
			if !status.Authorized {
				return errors.Errorf("worker identity %s session not authorized", identity.Name)
			}
			close(ready)
			<-ctx.Done()
			return nil
		})
	}()

	select {
	case <-ready:
	case err := <-done:
		cancel()
		if err == nil {
			err = errors.Errorf("worker identity %s: client stopped before authorizing", identity.Name)
		}
		return nil, err
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}

	released := false
	release := func() {
		if released {
			return
		}
		released = true
		cancel()
		<-done
	}

	return &Session{
		Identity: identity,
		API:      client.API(),
		Release:  release,
	}, nil
}
