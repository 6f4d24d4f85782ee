package entities

import "time"

// DefaultBlogAuthor is used when a post has no author
const DefaultBlogAuthor = "HAL Team"

// BlogPost is a bilingual article
type BlogPost struct {
	ID          string    `json:"_id" db:"id" yaml:"-"`
	TitleUk     string    `json:"titleUk" db:"title_uk" yaml:"titleUk"`
	TitleRu     string    `json:"titleRu" db:"title_ru" yaml:"titleRu"`
	ContentUk   string    `json:"contentUk" db:"content_uk" yaml:"contentUk"`
	ContentRu   string    `json:"contentRu" db:"content_ru" yaml:"contentRu"`
	ExcerptUk   string    `json:"excerptUk" db:"excerpt_uk" yaml:"excerptUk"`
	ExcerptRu   string    `json:"excerptRu" db:"excerpt_ru" yaml:"excerptRu"`
	Image       string    `json:"image" db:"image" yaml:"image"`
	Author      string    `json:"author" db:"author" yaml:"author"`
	PublishedAt time.Time `json:"publishedAt" db:"published_at" yaml:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" yaml:"-"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at" yaml:"-"`
}

// BlogPage is one page of blog posts
type BlogPage struct {
	Posts []*BlogPost `json:"posts"`
	Total int         `json:"total"`
}
