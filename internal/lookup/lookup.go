// Package lookup matches in-progress form input against the backend's
// customer list so returning customers are recognised and prefilled. The
// whole feature is best-effort: it never blocks the form and any fetch or
// match failure is swallowed.
package lookup

import (
	"context"
	"strings"
	"sync"

	"salesdesk/domain"
	"salesdesk/internal/contact"
	"salesdesk/internal/sale"
)

// CustomerSource is the backend operation the cache needs.
type CustomerSource interface {
	Customers(ctx context.Context) ([]domain.Customer, error)
}

// Cache memoizes the full customer list once per form session. There is no
// invalidation beyond Reset, which the gateway calls when a form session
// starts over.
type Cache struct {
	source CustomerSource

	mu        sync.Mutex
	customers []domain.Customer
	fetched   bool
}

func New(source CustomerSource) *Cache {
	return &Cache{source: source}
}

// Reset drops the cached list so the next lookup refetches.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customers = nil
	c.fetched = false
}

func (c *Cache) list(ctx context.Context) ([]domain.Customer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetched {
		return c.customers, nil
	}
	customers, err := c.source.Customers(ctx)
	if err != nil {
		// Not cached; a later lookup gets another chance.
		return nil, err
	}
	c.customers = customers
	c.fetched = true
	return c.customers, nil
}

// Find looks for an existing customer. Contact matches take priority over
// name matches: any entered contact equal (ignoring the leading zero) to
// either stored contact wins; failing that, an exact case-insensitive
// trimmed name match. The first customer matching wins.
func (c *Cache) Find(ctx context.Context, contact01, contact02, name string) (domain.Customer, bool) {
	customers, err := c.list(ctx)
	if err != nil {
		return domain.Customer{}, false
	}

	entered := make([]string, 0, 2)
	for _, raw := range []string{contact01, contact02} {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			entered = append(entered, contact.NormalizeForCompare(trimmed))
		}
	}
	for _, cust := range customers {
		if contactMatches(entered, cust) {
			return cust, true
		}
	}

	wantName := strings.ToLower(strings.TrimSpace(name))
	if wantName == "" {
		return domain.Customer{}, false
	}
	for _, cust := range customers {
		if strings.ToLower(strings.TrimSpace(cust.Name)) == wantName {
			return cust, true
		}
	}
	return domain.Customer{}, false
}

func contactMatches(entered []string, cust domain.Customer) bool {
	for _, stored := range []string{cust.Contact01, cust.Contact02} {
		if stored == "" {
			continue
		}
		normalized := contact.NormalizeForCompare(stored)
		for _, e := range entered {
			if e == normalized {
				return true
			}
		}
	}
	return false
}

// LookupAndPrefill runs on blur of the name/contact fields: when a match
// is found, its data is copied into the form. Matched values are preferred
// over whatever was typed whenever they are non-empty; empty stored fields
// never blank out user input.
func (c *Cache) LookupAndPrefill(ctx context.Context, f *sale.Form) bool {
	match, ok := c.Find(ctx, f.Contact01, f.Contact02, f.Name)
	if !ok {
		return false
	}
	f.CustomerID = match.CustomerID
	if match.Name != "" {
		f.Name = match.Name
	}
	if match.Address != "" {
		f.Address = match.Address
	}
	if match.Contact01 != "" {
		f.Contact01 = contact.EnsureLeadingZero(match.Contact01)
	}
	if match.Contact02 != "" {
		f.Contact02 = contact.EnsureLeadingZero(match.Contact02)
	}
	return true
}
