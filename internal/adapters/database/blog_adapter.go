package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
	"github.com/hal-directory/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

const blogPostsTable = "blog_posts"

var blogColumns = []interface{}{
	"id", "title_uk", "title_ru", "content_uk", "content_ru", "excerpt_uk", "excerpt_ru",
	"image", "author", "published_at", "created_at", "updated_at",
}

// BlogAdapter implements BlogRepository
type BlogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBlogAdapter creates a new blog adapter
func NewBlogAdapter(client *postgres.Client) repositories.BlogRepository {
	return &BlogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a blog post
func (a *BlogAdapter) Create(ctx context.Context, post *entities.BlogPost) error {
	record := goqu.Record{
		"id":           post.ID,
		"title_uk":     post.TitleUk,
		"title_ru":     post.TitleRu,
		"content_uk":   post.ContentUk,
		"content_ru":   post.ContentRu,
		"excerpt_uk":   post.ExcerptUk,
		"excerpt_ru":   post.ExcerptRu,
		"image":        post.Image,
		"author":       post.Author,
		"published_at": post.PublishedAt,
		"created_at":   post.CreatedAt,
		"updated_at":   post.UpdatedAt,
	}

	query, args, err := a.db.Insert(blogPostsTable).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create blog post", err)
	}
	return nil
}

// GetByID retrieves a blog post by ID
func (a *BlogAdapter) GetByID(ctx context.Context, id string) (*entities.BlogPost, error) {
	query, args, err := a.db.From(blogPostsTable).Prepared(true).
		Select(blogColumns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build select query", err)
	}

	post, err := scanBlogPost(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Post not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get blog post", err)
	}
	return post, nil
}

// List returns posts newest published first
func (a *BlogAdapter) List(ctx context.Context, offset, limit int) ([]*entities.BlogPost, error) {
	ds := a.db.From(blogPostsTable).Prepared(true).
		Select(blogColumns...).
		Order(goqu.C("published_at").Desc(), goqu.C("id").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list blog posts", err)
	}
	defer rows.Close()

	posts := make([]*entities.BlogPost, 0, limit)
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan blog post", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate blog posts", err)
	}
	return posts, nil
}

// Count returns the number of blog posts
func (a *BlogAdapter) Count(ctx context.Context) (int, error) {
	query, args, err := a.db.From(blogPostsTable).Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, apperrors.NewInternalError("failed to count blog posts", err)
	}
	return total, nil
}

// DeleteAll removes every blog post
func (a *BlogAdapter) DeleteAll(ctx context.Context) error {
	query, args, err := a.db.Delete(blogPostsTable).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete blog posts", err)
	}
	return nil
}

func scanBlogPost(row rowScanner) (*entities.BlogPost, error) {
	post := &entities.BlogPost{}
	err := row.Scan(
		&post.ID,
		&post.TitleUk,
		&post.TitleRu,
		&post.ContentUk,
		&post.ContentRu,
		&post.ExcerptUk,
		&post.ExcerptRu,
		&post.Image,
		&post.Author,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}
