package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/storegraph/pkg/response"
)

// bucket tracks a fixed-window request count for one client.
type bucket struct {
	count   int
	resetAt time.Time
}

type limiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextSweep) {
		// Evict expired buckets so idle clients do not accumulate.
		for k, b := range l.buckets {
			if now.After(b.resetAt) {
				delete(l.buckets, k)
			}
		}
		l.nextSweep = now.Add(l.window)
	}

	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}

	b.count++
	return b.count <= l.max
}

// RateLimit limits each client to max requests per window. Clients are
// keyed by proxies.ClientIP.
//
//	r.Use(middleware.RateLimit(config.RateLimit(), time.Minute, proxies))
func RateLimit(max int, window time.Duration, proxies Proxies) Middleware {
	return rateLimit(max, window, proxies, time.Now)
}

func rateLimit(max int, window time.Duration, proxies Proxies, now func() time.Time) Middleware {
	l := &limiter{max: max, window: window, now: now, buckets: map[string]*bucket{}}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(proxies.ClientIP(r)) {
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ─── Client address ──────────────────────────────────────────────────────────

// Proxies are the reverse proxies whose X-Forwarded-For header is believed.
// The zero value trusts nobody.
type Proxies []netip.Prefix

// ParseProxies accepts single addresses and CIDR ranges.
func ParseProxies(list []string) (Proxies, error) {
	var out Proxies
	for _, s := range list {
		if strings.Contains(s, "/") {
			p, err := netip.ParsePrefix(s)
			if err != nil {
				return nil, fmt.Errorf("middleware: trusted proxy %q: %w", s, err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("middleware: trusted proxy %q: %w", s, err)
		}
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

func (p Proxies) trusts(a netip.Addr) bool {
	a = a.Unmap()
	for _, prefix := range p {
		if prefix.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP returns the peer address. When the peer is a trusted proxy the
// X-Forwarded-For chain is walked from the right and the first hop that is
// not itself a trusted proxy wins.
func (p Proxies) ClientIP(r *http.Request) string {
	remote := remoteIP(r)
	peer, err := netip.ParseAddr(remote)
	if err != nil || !p.trusts(peer) {
		return remote
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			return remote
		}
		if !p.trusts(hop) {
			return hop.Unmap().String()
		}
	}
	return remote
}

// remoteIP is the host part of RemoteAddr.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
