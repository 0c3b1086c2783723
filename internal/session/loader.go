// Package session builds the merged UserData snapshot the dashboard and
// the onboarding wizard render from.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/observability"
	"github.com/autobooks/dashboard-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("session")

const cacheName = "session"

// Loader fetches profile, rooms and documents concurrently and merges them.
type Loader struct {
	src     port.SessionSource
	cache   port.Cache[domain.UserData]
	state   *State
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewLoader creates a session loader.
func NewLoader(src port.SessionSource, cache port.Cache[domain.UserData], state *State, metrics *observability.Metrics, logger *zap.Logger) *Loader {
	return &Loader{
		src:     src,
		cache:   cache,
		state:   state,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// State returns the current snapshot for userID.
func (l *Loader) State(userID string) Snapshot {
	return l.state.Get(userID)
}

// Load returns the UserData for cred, from cache when fresh.
// A nil credential is ErrUnauthorized and nothing is fetched.
func (l *Loader) Load(ctx context.Context, cred *domain.Credential) (*domain.UserData, error) {
	if cred == nil {
		return nil, &domain.ErrUnauthorized{}
	}

	if data, ok, err := l.cache.Get(ctx, cred.UserID); err != nil {
		l.logger.Warn("session cache read failed", zap.String("user_id", cred.UserID), zap.Error(err))
	} else if ok {
		l.metrics.IncrCacheHit(cacheName)
		data.Profile.Email = cred.Email
		l.state.finish(cred.UserID, &data, nil)
		return &data, nil
	}
	l.metrics.IncrCacheMiss(cacheName)

	return l.fetch(ctx, cred)
}

// Refetch drops the cached snapshot and loads again.
func (l *Loader) Refetch(ctx context.Context, cred *domain.Credential) (*domain.UserData, error) {
	if cred == nil {
		return nil, &domain.ErrUnauthorized{}
	}
	l.Invalidate(ctx, cred.UserID)
	return l.fetch(ctx, cred)
}

// Invalidate drops the cached snapshot; the next Load fetches.
// Called after every state-changing operation.
func (l *Loader) Invalidate(ctx context.Context, userID string) {
	if err := l.cache.Delete(ctx, userID); err != nil {
		l.logger.Warn("session cache delete failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// Forget drops the cache and state for userID (sign-out).
func (l *Loader) Forget(ctx context.Context, userID string) {
	l.Invalidate(ctx, userID)
	l.state.Clear(userID)
}

func (l *Loader) fetch(ctx context.Context, cred *domain.Credential) (*domain.UserData, error) {
	ctx, span := tracer.Start(ctx, "Session.Load")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", cred.UserID))

	start := l.now()
	defer func() {
		l.metrics.RecordRequestDuration("session.load", time.Since(start))
	}()

	l.state.begin(cred.UserID)

	var (
		profile   *domain.UserProfile
		rooms     []domain.RoomType
		documents []domain.UserDocument
		hasGoogle bool
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := l.src.GetProfile(gCtx, cred)
		if err != nil {
			return fmt.Errorf("profile fetch: %w", err)
		}
		profile = p
		return nil
	})

	g.Go(func() error {
		r, err := l.src.ListRooms(gCtx, cred)
		if err != nil {
			return fmt.Errorf("rooms fetch: %w", err)
		}
		rooms = r
		return nil
	})

	g.Go(func() error {
		d, err := l.src.ListDocuments(gCtx, cred)
		if err != nil {
			return fmt.Errorf("documents fetch: %w", err)
		}
		documents = d
		return nil
	})

	// Best effort: a failed check renders as "not connected".
	g.Go(func() error {
		st, err := l.src.CheckGoogle(gCtx, cred)
		if err != nil {
			if gCtx.Err() == nil {
				l.logger.Warn("google check failed, assuming disconnected",
					zap.String("user_id", cred.UserID),
					zap.Error(err),
				)
			}
			return nil
		}
		hasGoogle = st != nil && st.Connected
		return nil
	})

	if err := g.Wait(); err != nil {
		l.logger.Error("session load failed",
			zap.String("user_id", cred.UserID),
			zap.Error(err),
		)
		l.metrics.IncrSessionLoad("error")
		l.state.finish(cred.UserID, nil, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		l.state.finish(cred.UserID, nil, err)
		return nil, err
	}
	if profile == nil {
		err := &domain.ErrNotFound{Resource: "profile", ID: cred.UserID}
		l.metrics.IncrSessionLoad("error")
		l.state.finish(cred.UserID, nil, err)
		return nil, err
	}

	if rooms == nil {
		rooms = []domain.RoomType{}
	}
	if documents == nil {
		documents = []domain.UserDocument{}
	}

	merged := *profile
	merged.Email = cred.Email

	data := &domain.UserData{
		Profile:              merged,
		Rooms:                rooms,
		Documents:            documents,
		HasGoogleIntegration: hasGoogle,
		LoadedAt:             l.now(),
	}

	if err := l.cache.Set(ctx, cred.UserID, *data); err != nil {
		l.logger.Warn("session cache write failed", zap.String("user_id", cred.UserID), zap.Error(err))
	}
	l.metrics.IncrSessionLoad("ok")
	l.state.finish(cred.UserID, data, nil)

	l.logger.Debug("session loaded",
		zap.String("user_id", cred.UserID),
		zap.String("status", string(merged.Status)),
		zap.Int("rooms", len(rooms)),
		zap.Int("documents", len(documents)),
	)
	return data, nil
}
