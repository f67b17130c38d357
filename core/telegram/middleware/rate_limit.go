package middleware

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m3rciful/ratebot/core/logger"
	tghelpers "github.com/m3rciful/ratebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	// Interval is the sustained minimum gap between updates of one user.
	Interval time.Duration
	// Burst allows that many updates in a row before Interval applies.
	Burst     int
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
	// IdleEvict drops limiters of users silent for longer than this; 0 -> 10m.
	IdleEvict time.Duration
}

type userLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu        sync.Mutex
	users     map[int64]*userLimiter
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func (s *limiterSet) allow(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if now.Sub(s.lastSweep) > s.idle {
		for id, u := range s.users {
			if now.Sub(u.lastSeen) > s.idle {
				delete(s.users, id)
			}
		}
		s.lastSweep = now
	}
	u, ok := s.users[userID]
	if !ok {
		u = &userLimiter{lim: rate.NewLimiter(s.every, s.burst)}
		s.users[userID] = u
	}
	u.lastSeen = now
	return u.lim.AllowN(now, 1)
}

// UpdateKind classifies an update for rate limit exclusions.
func UpdateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	case upd.Query != nil:
		return "inline_query"
	}
	return "other"
}

// RateLimitMiddleware drops updates from users exceeding a token-bucket limit.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	return rateLimit(opts, time.Now)
}

func rateLimit(opts RateLimitOptions, now func() time.Time) tele.MiddlewareFunc {
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	idle := opts.IdleEvict
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	set := &limiterSet{
		users:     make(map[int64]*userLimiter),
		every:     rate.Every(opts.Interval),
		burst:     burst,
		idle:      idle,
		lastSweep: now(),
		now:       now,
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			if _, skip := opts.Exclude[UpdateKind(c.Update())]; skip {
				return next(c)
			}
			if set.allow(user.ID) {
				return next(c)
			}

			logger.Warn(tghelpers.BuildContext(c), logger.CompTG, "tg.rate_limit",
				slog.String("status", "rate_limited"),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
