package i18n

var zhTable = map[Key]string{
	KeySiteTitle:       "TBlog",
	KeySiteDescription: "现代化博客平台",
	KeySiteWelcome:     "欢迎来到 {{name}}",

	KeyNavHome:     "首页",
	KeyNavPosts:    "文章",
	KeyNavTheme:    "主题",
	KeyNavLanguage: "语言",

	KeyThemeLight:  "浅色模式",
	KeyThemeDark:   "深色模式",
	KeyThemeSystem: "跟随系统",
	KeyThemeToggle: "切换主题",

	KeyButtonReadMore: "阅读全文",
	KeyButtonBackHome: "返回首页",
	KeyButtonRetry:    "重试",
	KeyButtonSearch:   "搜索",

	KeyPostPublishedAt: "发布于 {{date}}",
	KeyPostUpdatedAt:   "更新于 {{date}}",
	KeyPostTags:        "标签",
	KeyPostRelated:     "相关文章",
	KeyPostLatest:      "最新文章",
	KeyPostDraft:       "草稿",

	KeySearchPlaceholder: "搜索文章...",
	KeySearchNoResults:   "没有找到相关文章",

	KeyPaginationPrev:       "上一页",
	KeyPaginationNext:       "下一页",
	KeyPaginationPage:       "第 {{current}} 页",
	KeyPaginationTotalPages: "共 {{total}} 页",

	KeyErrorNotFound:     "页面未找到",
	KeyErrorPostNotFound: "文章未找到",
	KeyErrorServerError:  "服务器错误",

	KeyStatusLoading: "加载中...",
	KeyStatusNoPosts: "暂无文章",

	KeyTagsTitle: "标签",
	KeyTagsCount: "{{count}} 篇文章",
}

var enTable = map[Key]string{
	KeySiteTitle:       "TBlog",
	KeySiteDescription: "Modern Blog Platform",
	KeySiteWelcome:     "Welcome to {{name}}",

	KeyNavHome:     "Home",
	KeyNavPosts:    "Posts",
	KeyNavTheme:    "Theme",
	KeyNavLanguage: "Language",

	KeyThemeLight:  "Light Mode",
	KeyThemeDark:   "Dark Mode",
	KeyThemeSystem: "Follow System",
	KeyThemeToggle: "Toggle Theme",

	KeyButtonReadMore: "Read More",
	KeyButtonBackHome: "Back to Home",
	KeyButtonRetry:    "Retry",
	KeyButtonSearch:   "Search",

	KeyPostPublishedAt: "Published on {{date}}",
	KeyPostUpdatedAt:   "Updated on {{date}}",
	KeyPostTags:        "Tags",
	KeyPostRelated:     "Related Posts",
	KeyPostLatest:      "Latest Posts",
	KeyPostDraft:       "Draft",

	KeySearchPlaceholder: "Search posts...",
	KeySearchNoResults:   "No related posts found",

	KeyPaginationPrev:       "Previous",
	KeyPaginationNext:       "Next",
	KeyPaginationPage:       "Page {{current}}",
	KeyPaginationTotalPages: "{{total}} pages total",

	KeyErrorNotFound:     "Page Not Found",
	KeyErrorPostNotFound: "Post Not Found",
	KeyErrorServerError:  "Server Error",

	KeyStatusLoading: "Loading...",
	KeyStatusNoPosts: "No Posts",

	KeyTagsTitle: "Tags",
	KeyTagsCount: "{{count}} posts",
}
