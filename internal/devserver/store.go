package devserver

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nkaewam/catalogctl/internal/catalog"
)

// store is the in-memory backing state. Lists keep insertion order.
type store struct {
	mu       sync.RWMutex
	products []catalog.Product
	banners  []catalog.Banner
	offers   []catalog.Banner
	contacts []catalog.ContactMessage
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func (s *store) listProducts() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

func (s *store) product(id string) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.productIndex(id)
	if i < 0 {
		return catalog.Product{}, false
	}
	return s.products[i], true
}

func (s *store) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p catalog.Product) bool { return p.ID == id })
}

func (s *store) addProduct(p catalog.Product) catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = newID()
	s.products = append(s.products, p)
	return p
}

// updateProduct applies fn to the stored product and returns the result.
func (s *store) updateProduct(id string, fn func(*catalog.Product) error) (catalog.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(id)
	if i < 0 {
		return catalog.Product{}, false, nil
	}
	p := s.products[i]
	if err := fn(&p); err != nil {
		return catalog.Product{}, true, err
	}
	s.products[i] = p
	return p, true, nil
}

func (s *store) deleteProduct(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(id)
	if i < 0 {
		return false
	}
	s.products = slices.Delete(s.products, i, i+1)
	return true
}

func (s *store) list(offers bool) *[]catalog.Banner {
	if offers {
		return &s.offers
	}
	return &s.banners
}

func (s *store) listBanners(offers bool, t catalog.BannerType) []catalog.Banner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := *s.list(offers)
	if t == "" {
		return slices.Clone(all)
	}
	return catalog.FilterBanners(all, t)
}

// addBanner stores b unless conflict reports an existing banner it clashes with.
func (s *store) addBanner(offers bool, b catalog.Banner, conflict func(existing catalog.Banner) error) (catalog.Banner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.list(offers)
	for _, existing := range *list {
		if err := conflict(existing); err != nil {
			return catalog.Banner{}, err
		}
	}
	b.ID = newID()
	*list = append(*list, b)
	return b, nil
}

func (s *store) banner(id string) (catalog.Banner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.banners, func(b catalog.Banner) bool { return b.ID == id })
	if i < 0 {
		return catalog.Banner{}, false
	}
	return s.banners[i], true
}

// replaceBanner swaps in b (matched by ID) unless it conflicts with another banner.
func (s *store) replaceBanner(b catalog.Banner, conflict func(existing catalog.Banner) error) (catalog.Banner, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.banners, func(existing catalog.Banner) bool { return existing.ID == b.ID })
	if i < 0 {
		return catalog.Banner{}, false, nil
	}
	for _, existing := range s.banners {
		if err := conflict(existing); err != nil {
			return catalog.Banner{}, true, err
		}
	}
	s.banners[i] = b
	return b, true, nil
}

func (s *store) deleteBanner(offers bool, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.list(offers)
	i := slices.IndexFunc(*list, func(b catalog.Banner) bool { return b.ID == id })
	if i < 0 {
		return false
	}
	*list = slices.Delete(*list, i, i+1)
	return true
}

func (s *store) deleteBannersByType(t catalog.BannerType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.banners)
	s.banners = slices.DeleteFunc(s.banners, func(b catalog.Banner) bool { return b.Type == t })
	return before - len(s.banners)
}

func (s *store) addContact(m catalog.ContactMessage) catalog.ContactMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = newID()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.contacts = append(s.contacts, m)
	return m
}

func (s *store) listContacts() []catalog.ContactMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.contacts)
}

func (s *store) markResponded(id string) (catalog.ContactMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.contacts, func(m catalog.ContactMessage) bool { return m.ID == id })
	if i < 0 {
		return catalog.ContactMessage{}, false
	}
	s.contacts[i].Responded = true
	return s.contacts[i], true
}
