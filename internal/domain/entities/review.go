package entities

import "time"

// Review is a user's rating of a company.
// A user reviews a given company at most once.
type Review struct {
	ID        string    `json:"_id" db:"id"`
	CompanyID string    `json:"companyId" db:"company_id"`
	UserID    string    `json:"userId" db:"user_id"`
	UserName  string    `json:"userName" db:"user_name"`
	Rating    int       `json:"rating" db:"rating"` // 1-5
	Comment   string    `json:"comment" db:"comment"`
	CommentRu *string   `json:"commentRu" db:"comment_ru"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ReviewPage is one page of a company's reviews
type ReviewPage struct {
	Reviews []*Review `json:"reviews"`
	Total   int       `json:"total"`
}
