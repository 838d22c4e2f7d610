package models

import "time"

type Author struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Biography   string `json:"biography,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Publisher struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Document is a downloadable library item. IsPremium and Score carry its
// entitlement metadata; see Descriptor.
type Document struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	FileURL     string     `json:"fileUrl,omitempty"`
	FileName    string     `json:"fileName,omitempty"`
	CoverImage  string     `json:"coverImage,omitempty"`
	IsPremium   bool       `json:"isPremium"`
	Score       int64      `json:"score"`
	Downloads   int64      `json:"downloads,omitempty"`
	Views       int64      `json:"views,omitempty"`
	Author      *Author    `json:"author,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	Publisher   *Publisher `json:"publisher,omitempty"`
	IsFavorite  bool       `json:"isFavorite,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Descriptor returns the entitlement view of d.
func (d Document) Descriptor() Descriptor {
	return Descriptor{
		DocumentID: d.ID,
		Title:      d.Title,
		IsPremium:  d.IsPremium,
		Score:      d.Score,
		ContentURL: d.FileURL,
		FileName:   d.FileName,
	}
}

type Book struct {
	ID            ID         `json:"id"`
	Title         string     `json:"title"`
	ISBN          string     `json:"isbn,omitempty"`
	Quantity      int        `json:"quantity"`
	Available     int        `json:"available"`
	PublishedYear int        `json:"publishedYear,omitempty"`
	CoverImage    string     `json:"coverImage,omitempty"`
	Author        *Author    `json:"author,omitempty"`
	Category      *Category  `json:"category,omitempty"`
	Publisher     *Publisher `json:"publisher,omitempty"`
}

type BorrowRecord struct {
	ID         ID         `json:"id"`
	BookID     ID         `json:"bookId"`
	BookTitle  string     `json:"bookTitle,omitempty"`
	UserID     ID         `json:"userId"`
	Username   string     `json:"username,omitempty"`
	BorrowDate *time.Time `json:"borrowDate,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Status     string     `json:"status"`
}

type Transaction struct {
	ID          ID         `json:"id"`
	UserID      ID         `json:"userId"`
	Username    string     `json:"username,omitempty"`
	Type        string     `json:"type"`
	Amount      int64      `json:"amount"`
	Status      string     `json:"status,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

type Slide struct {
	ID       ID     `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
	Link     string `json:"link,omitempty"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role,omitempty"`
	Active   bool   `json:"active"`
}
