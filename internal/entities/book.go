package entities

import (
	"strings"
	"time"
)

// DefaultCoverIcon is shown when a book has neither a local nor a remote cover.
const DefaultCoverIcon = "https://cdn-icons-png.flaticon.com/512/29/29302.png"

// Book is a listing owned by a single user. The JSON tags are the wire
// contract of the "books" collection documents.
type Book struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Author              string `json:"author"`
	Description         string `json:"description"`
	ISBN                string `json:"isbn"`
	Genre               string `json:"genre"`
	CoverImageURL       string `json:"coverImageUrl"`
	LocalCoverImagePath string `json:"localCoverImagePath"`
	OwnerUID            string `json:"ownerUid"`
	IsAvailable         bool   `json:"isAvailable"`
	CreatedAt           int64  `json:"createdAt"`
	UpdatedAt           int64  `json:"updatedAt"`
}

// IsValid reports whether the book can be persisted.
func (b Book) IsValid() bool {
	return strings.TrimSpace(b.Title) != "" &&
		strings.TrimSpace(b.Author) != "" &&
		strings.TrimSpace(b.OwnerUID) != ""
}

// DisplayImages returns the image references to render, preferring the
// locally cached copy over the remote URL.
func (b Book) DisplayImages() []string {
	if b.LocalCoverImagePath != "" {
		return []string{b.LocalCoverImagePath}
	}
	if b.CoverImageURL != "" {
		return []string{b.CoverImageURL}
	}
	return nil
}

// FirstImage returns the primary image reference, falling back to a generic icon.
func (b Book) FirstImage() string {
	images := b.DisplayImages()
	if len(images) == 0 {
		return DefaultCoverIcon
	}
	return images[0]
}

// ShortDescription truncates the description to at most 100 characters.
func (b Book) ShortDescription() string {
	runes := []rune(b.Description)
	if len(runes) <= 100 {
		return b.Description
	}
	return string(runes[:97]) + "..."
}

// NowMillis returns the current time in epoch milliseconds, the timestamp
// unit used throughout the document wire contract.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
