package domain

// Catalog document fields produced by the ingestion pipeline.
const (
	FieldID           = "id"
	FieldURL          = "url"
	FieldTitle        = "title"
	FieldContent      = "content"
	FieldSection      = "section"
	FieldMenuItem     = "menu_item"
	FieldMenuCategory = "menu_category"
	FieldIntroduction = "introduction"
	FieldStoreName    = "store_name"
	FieldDate         = "date"
	FieldTags         = "tags"
	FieldPrice        = "price"
	FieldPriceRange   = "price_range"
	FieldScore        = "score"
)

// Catalog sections.
const (
	SectionMenu  = "Menu"
	SectionBrand = "Brand Information"
	SectionStore = "Store Information"
)

// TextFields are the fields that carry searchable text, in display order.
var TextFields = []string{
	FieldTitle, FieldMenuItem, FieldMenuCategory, FieldContent, FieldIntroduction, FieldStoreName,
}
