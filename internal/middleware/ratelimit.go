package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type window struct {
	count int
	until time.Time
}

// RateLimit allows limit requests per client IP in each fixed window. A
// non-positive limit disables it.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	return rateLimit(limit, per, time.Now)
}

func rateLimit(limit int, per time.Duration, now func() time.Time) func(http.Handler) http.Handler {
	var mu sync.Mutex
	windows := make(map[string]*window)
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIPForRateLimit(r)
			t := now()

			mu.Lock()
			win, ok := windows[ip]
			if !ok || t.After(win.until) {
				win = &window{until: t.Add(per)}
				windows[ip] = win
			}
			if win.count >= limit {
				retry := int(win.until.Sub(t).Seconds()) + 1
				mu.Unlock()
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}` + "\n"))
				return
			}
			win.count++
			for key, old := range windows {
				if t.After(old.until) {
					delete(windows, key)
				}
			}
			mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip == "" {
				continue
			}
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if net.ParseIP(host) != nil {
			return host
		}
	} else if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}

	return r.RemoteAddr
}
