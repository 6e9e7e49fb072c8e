package cleaner

import (
	"strings"

	"umroh-scraper/internal/types"
	"umroh-scraper/utils"
)

// Cleaner normalizes scraped organizers and merges records that share a website
type Cleaner struct {
	config *types.Config
	logger types.Logger
}

// NewCleaner creates a new cleaner
func NewCleaner(config *types.Config, logger types.Logger) *Cleaner {
	return &Cleaner{
		config: config,
		logger: logger,
	}
}

// CleanOrganizer normalizes and validates the phones and emails of org and
// collapses whitespace in its address. org is modified in place and returned.
func (c *Cleaner) CleanOrganizer(org *types.Organizer) *types.Organizer {
	if org == nil {
		return nil
	}

	phones := types.NewOrderedSet()
	for _, raw := range org.PhoneNumbers.Values() {
		phone := utils.CleanPhoneNumber(raw)
		if !c.acceptPhone(phone) {
			c.logger.Debugf("Dropping invalid phone %q for %s", raw, org.WebsiteURL)
			continue
		}
		phones.Add(phone)
	}

	emails := types.NewOrderedSet()
	for _, raw := range org.Emails.Values() {
		email := utils.CleanEmail(raw)
		if !utils.ValidateEmail(email) {
			c.logger.Debugf("Dropping invalid email %q for %s", raw, org.WebsiteURL)
			continue
		}
		emails.Add(email)
	}

	org.PhoneNumbers = phones
	org.Emails = emails
	org.Address = strings.Join(strings.Fields(org.Address), " ")
	return org
}

func (c *Cleaner) acceptPhone(phone string) bool {
	if !utils.ValidatePhone(phone) {
		return false
	}
	if c.config != nil && c.config.StrictPhoneValidation {
		return utils.IsDialablePhone(phone)
	}
	return true
}

// RemoveDuplicates merges organizers that share a website URL. The first record
// for a URL keeps its position and name; later ones contribute missing phones,
// emails and address, and the earliest CreatedAt wins.
func (c *Cleaner) RemoveDuplicates(orgs []*types.Organizer) []*types.Organizer {
	byURL := make(map[string]*types.Organizer)
	merged := []*types.Organizer{}

	for _, org := range orgs {
		if org == nil {
			continue
		}

		existing, ok := byURL[org.WebsiteURL]
		if !ok {
			entry := copyOrganizer(org)
			byURL[org.WebsiteURL] = entry
			merged = append(merged, entry)
			continue
		}

		c.logger.Debugf("Merging duplicate record for %s", org.WebsiteURL)
		mergeInto(existing, org)
	}

	return merged
}

// CleanDataset cleans every organizer and then merges duplicates
func (c *Cleaner) CleanDataset(orgs []*types.Organizer) []*types.Organizer {
	for _, org := range orgs {
		c.CleanOrganizer(org)
	}

	result := c.RemoveDuplicates(orgs)
	c.logger.Infof("Cleaned %d records into %d unique organizers", len(orgs), len(result))
	return result
}

func mergeInto(existing, incoming *types.Organizer) {
	existing.PhoneNumbers.Union(incoming.PhoneNumbers)
	existing.Emails.Union(incoming.Emails)

	if existing.Address == "" && incoming.Address != "" {
		existing.Address = incoming.Address
	}

	if !incoming.CreatedAt.IsZero() && (existing.CreatedAt.IsZero() || incoming.CreatedAt.Before(existing.CreatedAt)) {
		existing.CreatedAt = incoming.CreatedAt
	}
}

// copyOrganizer returns a copy with its own sets so merging never mutates the input
func copyOrganizer(org *types.Organizer) *types.Organizer {
	return &types.Organizer{
		Name:         org.Name,
		WebsiteURL:   org.WebsiteURL,
		Address:      org.Address,
		PhoneNumbers: types.NewOrderedSet(org.PhoneNumbers.Values()...),
		Emails:       types.NewOrderedSet(org.Emails.Values()...),
		CreatedAt:    org.CreatedAt,
	}
}
