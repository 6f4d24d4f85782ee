package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
	"github.com/hal-directory/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

const companiesTable = "companies"

var companyColumns = []interface{}{
	"id", "name", "name_ru", "description", "description_ru", "category",
	"city", "address", "phone", "email", "website",
	"image", "images", "rating", "review_count",
	"is_new", "is_active", "user_id", "created_at", "updated_at",
}

// CompanyAdapter implements CompanyRepository
type CompanyAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCompanyAdapter creates a new company adapter
func NewCompanyAdapter(client *postgres.Client) repositories.CompanyRepository {
	return &CompanyAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new company
func (a *CompanyAdapter) Create(ctx context.Context, company *entities.Company) error {
	record := goqu.Record{
		"id":             company.ID,
		"name":           company.Name,
		"name_ru":        company.NameRu,
		"description":    company.Description,
		"description_ru": company.DescriptionRu,
		"category":       string(company.Category),
		"city":           company.Location.City,
		"address":        company.Location.Address,
		"phone":          company.Contacts.Phone,
		"email":          company.Contacts.Email,
		"website":        nullString(company.Contacts.Website),
		"image":          company.Image,
		"images":         pq.Array(nonNilStrings(company.Images)),
		"rating":         company.Rating,
		"review_count":   company.ReviewCount,
		"is_new":         company.IsNew,
		"is_active":      company.IsActive,
		"user_id":        nullString(company.UserID),
		"created_at":     company.CreatedAt,
		"updated_at":     company.UpdatedAt,
	}

	query, args, err := a.db.Insert(companiesTable).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return writeError(err, "company already exists", "", "failed to create company")
	}
	return nil
}

// GetByID retrieves a company by ID. Inactive companies are returned too.
func (a *CompanyAdapter) GetByID(ctx context.Context, id string) (*entities.Company, error) {
	query, args, err := a.db.From(companiesTable).Prepared(true).
		Select(companyColumns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build select query", err)
	}

	company, err := scanCompany(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Company not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get company", err)
	}
	return company, nil
}

// Update writes only the fields set in update and refreshes updated_at
func (a *CompanyAdapter) Update(ctx context.Context, id string, update repositories.CompanyUpdate) (*entities.Company, error) {
	record := companyUpdateRecord(update)
	record["updated_at"] = time.Now().UTC()

	query, args, err := a.db.Update(companiesTable).Prepared(true).
		Set(record).
		Where(goqu.C("id").Eq(id)).
		Returning(companyColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	company, err := scanCompany(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Company not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to update company", err)
	}
	return company, nil
}

func companyUpdateRecord(u repositories.CompanyUpdate) goqu.Record {
	record := goqu.Record{}
	if u.Name != nil {
		record["name"] = *u.Name
	}
	if u.NameRu != nil {
		record["name_ru"] = *u.NameRu
	}
	if u.Description != nil {
		record["description"] = *u.Description
	}
	if u.DescriptionRu != nil {
		record["description_ru"] = *u.DescriptionRu
	}
	if u.Category != nil {
		record["category"] = string(*u.Category)
	}
	if u.Location != nil {
		record["city"] = u.Location.City
		record["address"] = u.Location.Address
	}
	if u.Contacts != nil {
		record["phone"] = u.Contacts.Phone
		record["email"] = u.Contacts.Email
		record["website"] = nullString(u.Contacts.Website)
	}
	if u.Image != nil {
		record["image"] = *u.Image
	}
	if u.Images != nil {
		record["images"] = pq.Array(nonNilStrings(*u.Images))
	}
	if u.IsNew != nil {
		record["is_new"] = *u.IsNew
	}
	if u.IsActive != nil {
		record["is_active"] = *u.IsActive
	}
	return record
}

// SetRating writes rating and review_count in one statement
func (a *CompanyAdapter) SetRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	query, args, err := a.db.Update(companiesTable).Prepared(true).
		Set(goqu.Record{"rating": rating, "review_count": reviewCount}).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rating update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update company rating", err)
	}
	return requireAffected(result, "Company not found")
}

// Delete removes a company. Its reviews go with it through the foreign key.
func (a *CompanyAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(companiesTable).Prepared(true).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete company", err)
	}
	return requireAffected(result, "Company not found")
}

// DeleteAll removes every company
func (a *CompanyAdapter) DeleteAll(ctx context.Context) error {
	query, args, err := a.db.Delete(companiesTable).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete companies", err)
	}
	return nil
}

// List returns one page of companies. Filtering and sorting happen in the
// database over the whole table; LIMIT/OFFSET is applied last.
func (a *CompanyAdapter) List(ctx context.Context, q repositories.CompanyQuery) ([]*entities.Company, error) {
	ds := a.db.From(companiesTable).Prepared(true).
		Select(companyColumns...).
		Where(companyFilterExpressions(q.Filter)...)

	order := make([]exp.OrderedExpression, 0, len(q.Sort))
	for _, key := range q.Sort {
		if key.Desc {
			order = append(order, goqu.C(key.Field).Desc())
		} else {
			order = append(order, goqu.C(key.Field).Asc())
		}
	}
	if len(order) > 0 {
		ds = ds.Order(order...)
	}
	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
	}
	if q.Offset > 0 {
		ds = ds.Offset(uint(q.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list companies", err)
	}
	defer rows.Close()

	companies := make([]*entities.Company, 0, q.Limit)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan company", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate companies", err)
	}
	return companies, nil
}

// Count returns the number of companies matching filter
func (a *CompanyAdapter) Count(ctx context.Context, filter repositories.CompanyFilter) (int, error) {
	query, args, err := a.db.From(companiesTable).Prepared(true).
		Select(goqu.COUNT("*")).
		Where(companyFilterExpressions(filter)...).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, apperrors.NewInternalError("failed to count companies", err)
	}
	return total, nil
}

// ListIDs returns the id of every company
func (a *CompanyAdapter) ListIDs(ctx context.Context) ([]string, error) {
	query, args, err := a.db.From(companiesTable).Select("id").Order(goqu.C("id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build id query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list company ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan company id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func companyFilterExpressions(f repositories.CompanyFilter) []exp.Expression {
	var where []exp.Expression
	if f.ActiveOnly {
		where = append(where, goqu.C("is_active").IsTrue())
	}
	if f.Category != "" {
		where = append(where, goqu.C("category").Eq(string(f.Category)))
	}
	if f.IsNew != nil {
		where = append(where, goqu.C("is_new").Eq(*f.IsNew))
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		where = append(where, goqu.Or(
			goqu.C("name").ILike(pattern),
			goqu.C("name_ru").ILike(pattern),
			goqu.C("description").ILike(pattern),
			goqu.C("description_ru").ILike(pattern),
		))
	}
	return where
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes a user term match literally inside a LIKE pattern
// using the default backslash escape.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCompany(row rowScanner) (*entities.Company, error) {
	company := &entities.Company{}
	var (
		category string
		website  sql.NullString
		userID   sql.NullString
		images   []string
	)
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.NameRu,
		&company.Description,
		&company.DescriptionRu,
		&category,
		&company.Location.City,
		&company.Location.Address,
		&company.Contacts.Phone,
		&company.Contacts.Email,
		&website,
		&company.Image,
		pq.Array(&images),
		&company.Rating,
		&company.ReviewCount,
		&company.IsNew,
		&company.IsActive,
		&userID,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	company.Category = entities.Category(category)
	company.Contacts.Website = stringPtr(website)
	company.UserID = stringPtr(userID)
	company.Images = nonNilStrings(images)
	return company, nil
}

func requireAffected(result sql.Result, notFoundMsg string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
