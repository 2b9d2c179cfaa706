package booking

import (
	"fmt"
	"strings"
)

type PartyType string

const (
	PartyDeal    PartyType = "deal"
	PartyContact PartyType = "contact"
	PartyCompany PartyType = "company"
)

func (t PartyType) Valid() bool {
	return t == PartyDeal || t == PartyContact || t == PartyCompany
}

// Party references a CRM record a booking is linked to.
type Party struct {
	Type PartyType
	ID   string
}

func (p Party) String() string {
	return string(p.Type) + ":" + p.ID
}

func (p Party) Validate() error {
	if !p.Type.Valid() {
		return ErrInvalidParty.WithDetail(fmt.Sprintf("unknown party type %q", p.Type))
	}
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidParty.WithDetail("party id is required")
	}
	return nil
}

// ParseParty parses the "type:id" form used in storage and events.
func ParseParty(s string) (Party, error) {
	typ, id, ok := strings.Cut(s, ":")
	if !ok {
		return Party{}, ErrInvalidParty.WithDetail(fmt.Sprintf("malformed party %q", s))
	}
	p := Party{Type: PartyType(typ), ID: id}
	if err := p.Validate(); err != nil {
		return Party{}, err
	}
	return p, nil
}

// normalizeParties validates refs and drops duplicates, keeping first-seen order.
func normalizeParties(refs []Party) ([]Party, error) {
	out := make([]Party, 0, len(refs))
	seen := make(map[Party]struct{}, len(refs))
	for _, p := range refs {
		p.ID = strings.TrimSpace(p.ID)
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}
