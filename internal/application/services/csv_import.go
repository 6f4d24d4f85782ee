package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hal-directory/backend/internal/domain/entities"
)

const (
	defaultImportCity  = "Kyiv"
	defaultImportImage = "https://via.placeholder.com/400x300/E0E0E0/666666?text=Company"
)

// CSVColumns is the header of an import file
var CSVColumns = []string{
	"name", "nameRu", "description", "descriptionRu", "category",
	"city", "address", "phone", "email", "website", "image",
}

// categoryKeywords maps free-text category labels to categories. The
// first keyword contained in the label wins.
var categoryKeywords = []struct {
	keyword  string
	category entities.Category
}{
	{"кафе", entities.CategoryCafe},
	{"ресторан", entities.CategoryCafe},
	{"спорт", entities.CategorySport},
	{"фітнес", entities.CategorySport},
	{"краса", entities.CategoryBeauty},
	{"салон", entities.CategoryBeauty},
	{"мистецтво", entities.CategoryArt},
	{"розваги", entities.CategoryArt},
	{"прибирання", entities.CategoryHome},
	{"клінінг", entities.CategoryHome},
	{"авто", entities.CategoryAuto},
	{"будівництво", entities.CategoryConstruction},
	{"ремонт", entities.CategoryConstruction},
	{"інше", entities.CategoryOther},
}

// MapCategory turns a CSV category label into a category. Labels that are
// already category ids are kept; unknown labels map to other.
func MapCategory(label string) entities.Category {
	label = strings.ToLower(strings.TrimSpace(label))
	if c := entities.Category(label); c.IsValid() {
		return c
	}
	for _, k := range categoryKeywords {
		if strings.Contains(label, k.keyword) {
			return k.category
		}
	}
	return entities.CategoryOther
}

// ImportResult counts imported and rejected rows
type ImportResult struct {
	Imported int
	Errors   int
}

// ImportCSV creates one company per row. Rows without a name or phone are
// skipped and counted as errors, as are rows the store rejects.
func (s *SeedService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &ImportResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}

	result := &ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping malformed csv row")
			result.Errors++
			continue
		}

		field := func(name string) string {
			if i, ok := index[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		company := companyFromRow(field)
		if company.Name == "" || company.Contacts.Phone == "" {
			log.Warn().Int("line", line).Str("name", company.Name).Msg("Skipping company without name or phone")
			result.Errors++
			continue
		}

		if err := s.companies.Create(ctx, company); err != nil {
			log.Error().Err(err).Int("line", line).Str("name", company.Name).Msg("Failed to import company")
			result.Errors++
			continue
		}
		result.Imported++
	}

	return result, nil
}

func companyFromRow(field func(string) string) *entities.Company {
	now := time.Now().UTC()
	company := &entities.Company{
		ID:            uuid.New().String(),
		Name:          field("name"),
		NameRu:        fallback(field("nameRu"), field("name")),
		Description:   field("description"),
		DescriptionRu: fallback(field("descriptionRu"), field("description")),
		Category:      MapCategory(field("category")),
		Location: entities.Location{
			City:    fallback(field("city"), defaultImportCity),
			Address: field("address"),
		},
		Contacts: entities.Contacts{
			Phone: field("phone"),
			Email: field("email"),
		},
		Image:     fallback(field("image"), defaultImportImage),
		Images:    []string{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if website := field("website"); website != "" {
		company.Contacts.Website = &website
	}
	return company
}

// WriteSampleCSV writes an example import file
func WriteSampleCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	rows := [][]string{
		CSVColumns,
		{
			"Кондитерська Merry", "Кондитерская Merry",
			"Найсмачніші торти та солодощі", "Самые вкусные торты и сладости",
			"cafe", "Kyiv", "вул. Хрещатик, 1", "+380441234567",
			"merry@example.com", "https://merry.example.com",
			"https://via.placeholder.com/400x300/FFB6C1/FFFFFF?text=Merry",
		},
		{
			"Спортзал FitLife", "Спортзал FitLife",
			"Сучасний фітнес-центр з професійними тренерами", "Современный фитнес-центр с профессиональными тренерами",
			"sport", "Kyiv", "просп. Перемоги, 50", "+380442345678",
			"info@fitlife.ua", "",
			"https://via.placeholder.com/400x300/87CEEB/FFFFFF?text=FitLife",
		},
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write sample csv: %w", err)
	}
	return nil
}
