package ratelim

import (
	"net"
	"net/http"
	"sync"
	"time"

	"studioerp/utils"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

const forgetAfter = 10 * time.Minute

// RateLimiter throttles callers individually, by user id when the request
// is authenticated and by remote IP otherwise.
type RateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:    max(burst, 1),
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.visitors[key]; exists {
		return limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors[key] = limiter

	time.AfterFunc(forgetAfter, func() {
		rl.mu.Lock()
		delete(rl.visitors, key)
		rl.mu.Unlock()
	})

	return limiter
}

func visitor(r *http.Request) string {
	if id := utils.GetUserIDFromRequest(r); id != "" {
		return "user:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func (rl *RateLimiter) Limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !rl.getLimiter(visitor(r)).Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r, ps)
	}
}
