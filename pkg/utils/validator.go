package utils

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks whether the given string is a plausible email address.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidateAddressClassification checks that the application address matches
// its declared network classification. A "public" application must carry a
// globally routable address or a hostname, while a "local" application must
// carry a private, loopback or link-local address.
//
// Addresses that do not parse as IPs are treated as hostnames and accepted
// only for public applications, since internal hostnames cannot be told
// apart syntactically.
func ValidateAddressClassification(address, classification string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("%w: application address is required", entity.ErrValidation)
	}

	// Strip an optional scheme and port so bare IPs, URLs and host:port
	// forms are all accepted.
	host := address
	if idx := strings.Index(host, "://"); idx >= 0 {
		host = host[idx+3:]
	}
	if idx := strings.IndexAny(host, "/"); idx >= 0 {
		host = host[:idx]
	}
	if ap, err := netip.ParseAddrPort(host); err == nil {
		host = ap.Addr().String()
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		// Hostname rather than a literal IP.
		if classification == entity.NetworkLocal {
			return fmt.Errorf("%w: local applications must use an internal IP address", entity.ErrValidation)
		}
		return nil
	}

	isLocal := addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast()

	switch classification {
	case entity.NetworkPublic:
		if isLocal {
			return fmt.Errorf("%w: address %s is not publicly routable", entity.ErrValidation, addr)
		}
	case entity.NetworkLocal:
		if !isLocal {
			return fmt.Errorf("%w: address %s is not an internal address", entity.ErrValidation, addr)
		}
	default:
		return fmt.Errorf("%w: unknown network classification %q", entity.ErrValidation, classification)
	}

	return nil
}
