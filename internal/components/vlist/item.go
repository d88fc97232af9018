package vlist

import "strings"

// Item is a record shown by the list. Lines returns the row content for the
// given width; the list pads or crops it to the configured row height.
type Item interface {
	Lines(width int) []string
}

// TextItem is a single line of text
type TextItem string

// Lines implements Item
func (t TextItem) Lines(int) []string {
	return []string{string(t)}
}

// MultiLineItem is text split on newlines, one line per terminal line
type MultiLineItem string

// Lines implements Item
func (t MultiLineItem) Lines(int) []string {
	return strings.Split(string(t), "\n")
}
