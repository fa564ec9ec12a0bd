package session

import (
	"fmt"
	"strings"
)

// Classification buckets an inbound request path.
type Classification int

const (
	RouteUnclassified Classification = iota
	RouteProtected
	RoutePublic
)

func (c Classification) String() string {
	switch c {
	case RouteProtected:
		return "protected"
	case RoutePublic:
		return "public"
	default:
		return "unclassified"
	}
}

// Default route lists mirroring the pages and APIs the gateway fronts.
var (
	DefaultProtectedPrefixes = []string{"/dashboard", "/profile", "/api/me", "/api/change-password"}
	DefaultPublicRoutes      = []string{"/", "/login", "/signup"}
)

// RouteClassifier maps paths to protected, public, or unclassified.
// Protected matches by prefix, public by exact equality.
type RouteClassifier struct {
	protectedPrefixes []string
	publicRoutes      []string
}

// NewRouteClassifier validates that the two lists are disjoint: a public
// route that also matches a protected prefix would make the gate's outcome
// order-dependent, so construction fails instead.
func NewRouteClassifier(protectedPrefixes, publicRoutes []string) (*RouteClassifier, error) {
	for _, route := range publicRoutes {
		for _, prefix := range protectedPrefixes {
			if strings.HasPrefix(route, prefix) {
				return nil, fmt.Errorf("route %q is public but matches protected prefix %q", route, prefix)
			}
		}
	}
	return &RouteClassifier{
		protectedPrefixes: append([]string(nil), protectedPrefixes...),
		publicRoutes:      append([]string(nil), publicRoutes...),
	}, nil
}

// Classify maps a path to exactly one classification.
func (rc *RouteClassifier) Classify(path string) Classification {
	for _, prefix := range rc.protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return RouteProtected
		}
	}
	for _, route := range rc.publicRoutes {
		if path == route {
			return RoutePublic
		}
	}
	return RouteUnclassified
}
