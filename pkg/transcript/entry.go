// Package transcript is an append-only, in-memory conversation log. Entries are
// chained by content hash so that any later change to an entry is detectable.
package transcript

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Author identifies who produced an entry.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// ImageRef points at an image attached to a user entry.
type ImageRef struct {
	// Preview is a local reference for displaying the image (e.g. "blob:<uuid>").
	Preview   string `json:"preview"`
	Name      string `json:"name,omitempty"`
	MediaType string `json:"media_type"`
	Size      int    `json:"size"`
}

// Entry is a single transcript line.
type Entry struct {
	// Hash is the content-addressed identifier (SHA-256, hex-encoded)
	Hash string `json:"hash"`

	// ParentHash links to the previous entry. Nil for the first entry.
	ParentHash *string `json:"parent_hash"`

	Author Author    `json:"author"`
	Text   string    `json:"text"`
	Image  *ImageRef `json:"image,omitempty"`
}

// hashInput is the canonical form hashed for an entry.
type hashInput struct {
	Parent string    `json:"parent,omitempty"`
	Author Author    `json:"author"`
	Text   string    `json:"text"`
	Image  *ImageRef `json:"image,omitempty"`
}

// NewEntry creates an entry linked to parent (nil for the first entry) and
// computes its hash.
func NewEntry(author Author, text string, image *ImageRef, parent *Entry) *Entry {
	e := &Entry{
		Author: author,
		Text:   text,
	}
	if image != nil {
		img := *image
		e.Image = &img
	}

	if parent != nil {
		h := parent.Hash
		e.ParentHash = &h
	}

	e.Hash = e.computeHash()
	return e
}

// computeHash calculates the content-addressed hash for an entry.
func (e *Entry) computeHash() string {
	i := &hashInput{
		Author: e.Author,
		Text:   e.Text,
		Image:  e.Image,
	}

	if e.ParentHash != nil {
		i.Parent = *e.ParentHash
	}

	// Canonical JSON encoding for deterministic hashing
	data, err := json.Marshal(i)
	if err != nil {
		panic("failed to marshal hash input: " + err.Error())
	}

	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// clone returns a deep copy so callers cannot reach into the log.
func (e *Entry) clone() Entry {
	c := *e
	if e.ParentHash != nil {
		h := *e.ParentHash
		c.ParentHash = &h
	}
	if e.Image != nil {
		img := *e.Image
		c.Image = &img
	}
	return c
}
