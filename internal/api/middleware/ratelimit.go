package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/m04kA/CLF-ReservationService/internal/api/handlers"
)

// ipRateLimiter хранит лимитер на каждый IP адрес
type ipRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

// RateLimit ограничивает частоту запросов по IP адресу клиента
// Вешается на дорогие ручки (оплата), а не на весь роутер
func RateLimit(r rate.Limit, b int) func(http.Handler) http.Handler {
	limiter := newIPRateLimiter(r, b)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ip, _, err := net.SplitHostPort(req.RemoteAddr)
			if err != nil {
				ip = req.RemoteAddr
			}
			if !limiter.getLimiter(ip).Allow() {
				handlers.RespondError(w, http.StatusTooManyRequests, "muitas requisições, tente novamente em instantes")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
