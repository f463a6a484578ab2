package domain

import "time"

// BookCategories lists the accepted catalog categories.
var BookCategories = []string{
	"Fiction",
	"Non-Fiction",
	"Science Fiction",
	"Mystery",
	"Fantasy",
	"Biography",
	"History",
	"Self-Help",
	"Science",
	"Technology",
	"Romance",
	"Thriller",
	"Children",
	"Other",
}

// ValidCategory reports whether c is one of the accepted categories.
func ValidCategory(c string) bool {
	for _, known := range BookCategories {
		if known == c {
			return true
		}
	}
	return false
}

type Review struct {
	ID        int32     `json:"id"`
	BookID    int32     `json:"book_id"`
	UserID    int32     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"` // populated when fetching book details
	Rating    int32     `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedOn time.Time `json:"created_on"`
}

type Book struct {
	ID              int32     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	PublicationYear int32     `json:"publication_year"`
	ISBN            string    `json:"isbn"`
	PriceCents      int32     `json:"price_cents"`
	CoverImageKey   string    `json:"-"`
	CoverImageURL   string    `json:"cover_image_url,omitempty"`
	// TotalCopies is fixed at creation; AvailableCopies starts equal to it,
	// is decremented on approval and incremented on return, and must stay
	// within [0, TotalCopies].
	TotalCopies     int32     `json:"total_copies"`
	AvailableCopies int32     `json:"available_copies"`
	// BorrowedCount only ever grows.
	BorrowedCount int32    `json:"borrowed_count"`
	Rating        float64  `json:"rating"` // arithmetic mean of all review ratings
	Reviews       []Review `json:"reviews,omitempty"`
	IsFavorite    bool     `json:"is_favorite"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}
