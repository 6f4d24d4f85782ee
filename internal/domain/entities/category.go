package entities

// Category is the closed set of company categories
type Category string

const (
	CategoryCafe         Category = "cafe"
	CategorySport        Category = "sport"
	CategoryBeauty       Category = "beauty"
	CategoryArt          Category = "art"
	CategoryHome         Category = "home"
	CategoryAuto         Category = "auto"
	CategoryConstruction Category = "construction"
	CategoryOther        Category = "other"
)

// CategoryInfo describes a category with its bilingual labels
type CategoryInfo struct {
	ID     Category `json:"id"`
	NameUk string   `json:"nameUk"`
	NameRu string   `json:"nameRu"`
}

// CategoryWithCount is a category together with its number of active companies
type CategoryWithCount struct {
	CategoryInfo
	Count int `json:"count"`
}

var categories = []CategoryInfo{
	{ID: CategoryCafe, NameUk: "Кафе та ресторани", NameRu: "Кафе и рестораны"},
	{ID: CategorySport, NameUk: "Спорт і фітнес", NameRu: "Спорт и фитнес"},
	{ID: CategoryBeauty, NameUk: "Краса та здоров'я", NameRu: "Красота и здоровье"},
	{ID: CategoryArt, NameUk: "Мистецтво та розваги", NameRu: "Искусство и развлечения"},
	{ID: CategoryHome, NameUk: "Домашні та побутові послуги", NameRu: "Домашние и бытовые услуги"},
	{ID: CategoryAuto, NameUk: "Авто послуги", NameRu: "Авто услуги"},
	{ID: CategoryConstruction, NameUk: "Будівництво та ремонт", NameRu: "Строительство и ремонт"},
	{ID: CategoryOther, NameUk: "Інші послуги", NameRu: "Другие услуги"},
}

// Categories returns the fixed category list in display order
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	for _, info := range categories {
		if info.ID == c {
			return true
		}
	}
	return false
}
