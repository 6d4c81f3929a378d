package models

// TopicItem представляет одну трендовую тему из любого уровня цепочки: API, RSS или поиск.
type TopicItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	Category    string `json:"category"`
}
