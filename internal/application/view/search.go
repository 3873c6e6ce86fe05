// Package view holds the planner's screen state: the search box, the booking
// dialog, the auth gate and the helpers the bookings sheet renders with.
package view

import "strings"

// QuickTags are the one-tap searches offered under the search box
var QuickTags = []string{"Italian", "Thai", "Mexican", "Quick & Easy"}

// Search separates what the user is typing from the term queries use
type Search struct {
	Draft   string
	Applied string
}

// Type changes the draft only
func (s *Search) Type(text string) {
	s.Draft = text
}

// Submit applies the draft
func (s *Search) Submit() {
	s.Applied = strings.TrimSpace(s.Draft)
}

// Clear resets the draft and the applied term
func (s *Search) Clear() {
	s.Draft = ""
	s.Applied = ""
}

// ApplyTag puts tag in the search box and applies it at once
func (s *Search) ApplyTag(tag string) {
	s.Type(tag)
	s.Submit()
}

// Active reports whether a search term is applied
func (s *Search) Active() bool {
	return s.Applied != ""
}
