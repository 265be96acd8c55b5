package seed

import "github.com/kedaya2025/FastNav/internal/domain"

// Dataset is a full set of navigation records.
type Dataset struct {
	Categories []domain.Category
	Websites   []domain.Website
	Settings   map[string]string
}

// Defaults returns a fresh copy of the built-in dataset shown when no tier
// has data, and seeded into an empty durable store.
func Defaults() Dataset {
	return Dataset{
		Categories: DefaultCategories(),
		Websites:   DefaultWebsites(),
		Settings:   DefaultSettings(),
	}
}

func DefaultCategories() []domain.Category {
	return []domain.Category{
		{ID: "all", Name: "All", Icon: "Grid3X3"},
		{ID: "search", Name: "Search Engines", Icon: "Search"},
		{ID: "social", Name: "Social Media", Icon: "Users"},
		{ID: "dev", Name: "Developer Tools", Icon: "Code"},
		{ID: "design", Name: "Design Resources", Icon: "Palette"},
		{ID: "productivity", Name: "Productivity", Icon: "Zap"},
		{ID: "entertainment", Name: "Entertainment", Icon: "Play"},
		{ID: "news", Name: "News", Icon: "Newspaper"},
		{ID: "shopping", Name: "Shopping", Icon: "ShoppingBag"},
		{ID: "education", Name: "Education", Icon: "BookOpen"},
	}
}

func DefaultWebsites() []domain.Website {
	site := func(id, name, url, description, category, color string) domain.Website {
		return domain.Website{ID: id, Name: name, URL: url, Description: description, Category: category, Color: color}
	}
	return []domain.Website{
		site("google", "Google", "https://www.google.com", "The world's largest search engine", "search", "#4285f4"),
		site("baidu", "Baidu", "https://www.baidu.com", "China's largest search engine", "search", "#2932e1"),
		site("bing", "Bing", "https://www.bing.com", "Microsoft's search engine", "search", "#0078d4"),
		site("twitter", "Twitter", "https://twitter.com", "Global social media platform", "social", "#1da1f2"),
		site("weibo", "Weibo", "https://weibo.com", "Chinese social media platform", "social", "#e6162d"),
		site("instagram", "Instagram", "https://www.instagram.com", "Photo sharing network", "social", "#e4405f"),
		site("github", "GitHub", "https://github.com", "Code hosting platform", "dev", "#181717"),
		site("stackoverflow", "Stack Overflow", "https://stackoverflow.com", "Q&A community for programmers", "dev", "#f48024"),
		site("mdn", "MDN", "https://developer.mozilla.org", "Web development documentation", "dev", "#000000"),
		site("dribbble", "Dribbble", "https://dribbble.com", "Showcase for designers", "design", "#ea4c89"),
		site("figma", "Figma", "https://www.figma.com", "Collaborative online design tool", "design", "#f24e1e"),
		site("notion", "Notion", "https://www.notion.so", "All-in-one workspace", "productivity", "#000000"),
		site("trello", "Trello", "https://trello.com", "Project management boards", "productivity", "#0079bf"),
		site("youtube", "YouTube", "https://www.youtube.com", "The world's largest video platform", "entertainment", "#ff0000"),
		site("bilibili", "Bilibili", "https://www.bilibili.com", "Chinese video site with live comments", "entertainment", "#00a1d6"),
		site("zhihu", "Zhihu", "https://www.zhihu.com", "Chinese knowledge sharing community", "news", "#0084ff"),
		site("reddit", "Reddit", "https://www.reddit.com", "Social news aggregation", "news", "#ff4500"),
		site("amazon", "Amazon", "https://www.amazon.com", "The world's largest online store", "shopping", "#ff9900"),
		site("taobao", "Taobao", "https://www.taobao.com", "China's largest online retail platform", "shopping", "#ff4400"),
		site("coursera", "Coursera", "https://www.coursera.org", "Online courses platform", "education", "#0056d3"),
	}
}

func DefaultSettings() map[string]string {
	return map[string]string{
		domain.SettingSiteTitle:       "FastNav - Modern Navigation",
		domain.SettingSiteDescription: "A clean, stylish start page for quick access to your favorite websites",
		domain.SettingSiteKeywords:    "navigation,bookmarks,favorites,start page,team navigation",
	}
}
