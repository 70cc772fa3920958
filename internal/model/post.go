// Package model defines core data structures and types for the blog client.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PostID is the opaque, server-assigned identifier of a post.
type PostID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *PostID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PostID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("post id must be a string or a number, got %s", data)
	}
	*id = PostID(n.String())
	return nil
}

type Post struct {
	ID PostID `json:"id"`

	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`

	CreatedAt time.Time `json:"createdAt"`
}

// Layouts tried, in order, when decoding createdAt.
var createdAtFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02",
}

// UnmarshalJSON reads a post as emitted by the backend. Document stores name the
// id "_id", so both "_id" and "id" are accepted. An unparsable createdAt leaves
// CreatedAt zero instead of failing the whole list.
func (p *Post) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID        PostID          `json:"id"`
		DocID     PostID          `json:"_id"`
		Title     string          `json:"title"`
		Content   string          `json:"content"`
		Author    string          `json:"author"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*p = Post{
		ID:      wire.DocID,
		Title:   wire.Title,
		Content: wire.Content,
		Author:  wire.Author,
	}
	if p.ID == "" {
		p.ID = wire.ID
	}
	p.CreatedAt = parseCreatedAt(wire.CreatedAt)

	return nil
}

func parseCreatedAt(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Epoch milliseconds
		if ms, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			return time.UnixMilli(ms).UTC()
		}
		return time.Time{}
	}

	for _, format := range createdAtFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Draft is the form in progress. It only ever lives client side.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

func DraftFromPost(p Post) Draft {
	return Draft{
		Title:   p.Title,
		Content: p.Content,
		Author:  p.Author,
	}
}

func (d Draft) IsEmpty() bool {
	return d == Draft{}
}

// Complete reports whether every field holds something besides whitespace.
func (d Draft) Complete() bool {
	return strings.TrimSpace(d.Title) != "" &&
		strings.TrimSpace(d.Content) != "" &&
		strings.TrimSpace(d.Author) != ""
}

// EditTarget tells whether the form creates a new post or edits an existing one.
// The zero value means "creating".
type EditTarget struct {
	id     PostID
	active bool
}

func NoEditTarget() EditTarget {
	return EditTarget{}
}

func EditTargetFor(id PostID) EditTarget {
	return EditTarget{id: id, active: true}
}

// PostID returns the id under edit and whether there is one.
func (t EditTarget) PostID() (PostID, bool) {
	return t.id, t.active
}

func (t EditTarget) IsNone() bool {
	return !t.active
}

func (t EditTarget) String() string {
	if !t.active {
		return "none"
	}
	return "post:" + string(t.id)
}
