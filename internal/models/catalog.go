package models

// CatalogItem is one card of a catalog listing or a search result.
type CatalogItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PosterURL   string `json:"posterUrl,omitempty"`
	Description string `json:"description,omitempty"`
	Year        string `json:"year,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Rating      string `json:"rating,omitempty"`
}

// Category is a catalog listing addressed by a base path and a filter.
type Category struct {
	Label    string `json:"label"`
	BasePath string `json:"basePath"`
	Filter   string `json:"filter"`
}

// Categories are the listings exposed by the site's navigation.
var Categories = []Category{
	{Label: "Latest", BasePath: "new", Filter: "last"},
	{Label: "Popular", BasePath: "new", Filter: "popular"},
	{Label: "Watching now", BasePath: "new", Filter: "watching"},
	{Label: "Films", BasePath: "films", Filter: "last"},
	{Label: "Series", BasePath: "series", Filter: "last"},
	{Label: "Cartoons", BasePath: "cartoons", Filter: "last"},
	{Label: "Anime", BasePath: "animation", Filter: "last"},
}
