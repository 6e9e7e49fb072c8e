package types

import "time"

// Organizer represents a Haji & Umroh travel organizer scraped from its website
type Organizer struct {
	Name         string      `json:"name"`
	WebsiteURL   string      `json:"website_url"`
	Address      string      `json:"address,omitempty"`
	PhoneNumbers *OrderedSet `json:"phone_numbers"`
	Emails       *OrderedSet `json:"emails"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewOrganizer creates an organizer with empty contact sets, stamped with the current time
func NewOrganizer(name, websiteURL string) *Organizer {
	return &Organizer{
		Name:         name,
		WebsiteURL:   websiteURL,
		PhoneNumbers: NewOrderedSet(),
		Emails:       NewOrderedSet(),
		CreatedAt:    time.Now(),
	}
}

// EnsureSets replaces nil contact sets with empty ones.
// Records decoded from JSON or built as literals may carry nil sets.
func (o *Organizer) EnsureSets() {
	if o.PhoneNumbers == nil {
		o.PhoneNumbers = NewOrderedSet()
	}
	if o.Emails == nil {
		o.Emails = NewOrderedSet()
	}
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
