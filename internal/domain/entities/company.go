package entities

import "time"

// Location is the company's postal location
type Location struct {
	City    string `json:"city" db:"city" yaml:"city"`
	Address string `json:"address" db:"address" yaml:"address"`
}

// Contacts holds the ways to reach a company
type Contacts struct {
	Phone   string  `json:"phone" db:"phone" yaml:"phone"`
	Email   string  `json:"email" db:"email" yaml:"email"`
	Website *string `json:"website,omitempty" db:"website" yaml:"website,omitempty"`
}

// Company is a business listed in the directory.
// Rating and ReviewCount are derived from the company's reviews.
type Company struct {
	ID            string    `json:"_id" db:"id"`
	Name          string    `json:"name" db:"name"`
	NameRu        string    `json:"nameRu" db:"name_ru"`
	Description   string    `json:"description" db:"description"`
	DescriptionRu string    `json:"descriptionRu" db:"description_ru"`
	Category      Category  `json:"category" db:"category"`
	Location      Location  `json:"location"`
	Contacts      Contacts  `json:"contacts"`
	Image         string    `json:"image" db:"image"`
	Images        []string  `json:"images" db:"images"`
	Rating        float64   `json:"rating" db:"rating"`
	ReviewCount   int       `json:"reviewCount" db:"review_count"`
	IsNew         bool      `json:"isNew" db:"is_new"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	UserID        *string   `json:"userId" db:"user_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// OwnedBy reports whether userID owns the company
func (c *Company) OwnedBy(userID string) bool {
	return c.UserID != nil && *c.UserID == userID
}

// CompanySort is a listing sort mode
type CompanySort string

const (
	CompanySortRecent  CompanySort = "recent"
	CompanySortPopular CompanySort = "popular"
	CompanySortRating  CompanySort = "rating"
)

// IsValid reports whether s is a known sort mode
func (s CompanySort) IsValid() bool {
	switch s {
	case CompanySortRecent, CompanySortPopular, CompanySortRating:
		return true
	}
	return false
}

// CompanyPage is one page of a company listing
type CompanyPage struct {
	Companies []*Company `json:"companies"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	Pages     int        `json:"pages"`
}
