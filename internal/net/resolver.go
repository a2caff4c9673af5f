package net

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"url-monitor/internal/failure"
	"url-monitor/internal/models"
)

var ErrEmptyTarget = errors.New("empty target")

// HostLookup is satisfied by *net.Resolver.
type HostLookup interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Resolver resolves the literal host of a target through DNS. It never
// issues HTTP requests, so the IP reflects the input host rather than any
// redirect destination.
type Resolver struct {
	Lookup HostLookup
}

func NewResolver() *Resolver {
	return &Resolver{Lookup: net.DefaultResolver}
}

// Normalize trims raw and prefixes https:// unless an http or https scheme
// is already present.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyTarget
	}

	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}

	return raw, nil
}

func (r *Resolver) Resolve(ctx context.Context, raw string) (models.Target, error) {
	normalized, err := Normalize(raw)
	if err != nil {
		return models.Target{}, failure.New(failure.Resolution, "normalize", raw, err)
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return models.Target{}, failure.New(failure.Resolution, "parse", normalized, err)
	}

	host := u.Hostname()
	if host == "" {
		return models.Target{}, failure.New(failure.Resolution, "parse", normalized, errors.New("missing host"))
	}

	if ip := net.ParseIP(host); ip != nil {
		return models.Target{URL: normalized, Host: host, IP: ip.String()}, nil
	}

	lookup := r.Lookup
	if lookup == nil {
		lookup = net.DefaultResolver
	}

	addrs, err := lookup.LookupIPAddr(ctx, host)
	if err != nil {
		return models.Target{}, failure.New(failure.Resolution, "lookup", host, err)
	}

	ip := pickAddress(addrs)
	if ip == "" {
		return models.Target{}, failure.New(failure.Resolution, "lookup", host, errors.New("no addresses"))
	}

	return models.Target{URL: normalized, Host: host, IP: ip}, nil
}

// pickAddress prefers the first IPv4 address.
func pickAddress(addrs []net.IPAddr) string {
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			return v4.String()
		}
	}
	for _, a := range addrs {
		if a.IP != nil {
			return a.IP.String()
		}
	}
	return ""
}
