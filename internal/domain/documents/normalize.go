package documents

import (
	"context"
	"strings"
)

// TrimText is a before-create/before-update hook that strips surrounding
// whitespace from the free-text header fields and service names.
func TrimText(_ context.Context, doc *Document) error {
	doc.Customer = strings.TrimSpace(doc.Customer)
	doc.Project = strings.TrimSpace(doc.Project)
	doc.Notes = strings.TrimSpace(doc.Notes)
	for i := range doc.Items {
		doc.Items[i].Service = strings.TrimSpace(doc.Items[i].Service)
	}
	return nil
}

// RegisterDefaultHooks installs the hooks every server store runs with.
func RegisterDefaultHooks(s *Store) {
	s.Hooks().OnBeforeCreate(TrimText)
	s.Hooks().OnBeforeUpdate(TrimText)
}
