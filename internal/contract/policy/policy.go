// Package policy decides who may instantiate contracts.
package policy

import (
	"strings"

	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

// CreatorPolicy is an allow-list of addresses permitted to create contracts.
// The zero value permits nobody.
type CreatorPolicy struct {
	allowed map[string]struct{}
}

func NewCreatorPolicy(addrs ...string) CreatorPolicy {
	allowed := make(map[string]struct{}, len(addrs))
	for _, addr := range addrs {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		allowed[addr] = struct{}{}
	}
	return CreatorPolicy{allowed: allowed}
}

func (p CreatorPolicy) Permits(addr string) bool {
	_, ok := p.allowed[addr]
	return ok
}

// Authorize returns *usecase.UnauthorizedError for senders outside the list.
func (p CreatorPolicy) Authorize(sender string) error {
	if !p.Permits(sender) {
		return usecase.Unauthorized(sender)
	}
	return nil
}

func (p CreatorPolicy) Len() int {
	return len(p.allowed)
}
