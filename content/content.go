// Package content turns raw feed text into display-ready message parts:
// HTML stripping, image extraction, length-limited truncation and
// human-readable source names.
package content

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Display limits shared by the embed-style chat platforms.
const (
	MaxTitleLength   = 256
	MaxSummaryLength = 1024
)

// domainToSource maps publisher domains to display names per language.
var domainToSource = map[string]map[string]string{
	"cnn.com":             {"en": "CNN", "zh": "有线电视新闻网"},
	"bbc.com":             {"en": "BBC", "zh": "英国广播公司"},
	"bbc.co.uk":           {"en": "BBC", "zh": "英国广播公司"},
	"wsj.com":             {"en": "Wall Street Journal", "zh": "华尔街日报"},
	"foreignaffairs.com":  {"en": "Foreign Affairs", "zh": "外交事务"},
	"ft.com":              {"en": "Financial Times", "zh": "金融时报"},
	"reuters.com":         {"en": "Reuters", "zh": "路透社"},
	"theatlantic.com":     {"en": "The Atlantic", "zh": "大西洋月刊"},
	"economist.com":       {"en": "The Economist", "zh": "经济学人"},
	"nytimes.com":         {"en": "The New York Times", "zh": "纽约时报"},
	"bloomberg.com":       {"en": "Bloomberg", "zh": "彭博社"},
	"theconversation.com": {"en": "The Conversation", "zh": "对话"},
	"nautil.us":           {"en": "Nautilus", "zh": "鹦鹉螺"},
	"longreads.com":       {"en": "Longreads", "zh": "长读"},
	"nature.com":          {"en": "Nature", "zh": "《自然》"},
	"science.org":         {"en": "Science", "zh": "《科学》"},
	"eff.org":             {"en": "EFF", "zh": "电子前哨基金会"},
	"ieee.org":            {"en": "IEEE", "zh": "电气和电子工程师协会"},
	"brookings.edu":       {"en": "Brookings", "zh": "布鲁金斯学会"},
	"theguardian.com":     {"en": "The Guardian", "zh": "卫报"},
	"washingtonpost.com":  {"en": "Washington Post", "zh": "华盛顿邮报"},
	"apnews.com":          {"en": "AP News", "zh": "美联社"},
	"npr.org":             {"en": "NPR", "zh": "美国公共广播"},
	"wired.com":           {"en": "Wired", "zh": "连线"},
	"arstechnica.com":     {"en": "Ars Technica", "zh": "Ars Technica"},
	"techcrunch.com":      {"en": "TechCrunch", "zh": "TechCrunch"},
	"theverge.com":        {"en": "The Verge", "zh": "The Verge"},
	"hackernews.com":      {"en": "Hacker News", "zh": "Hacker News"},
}

var (
	stripPolicy  = bluemonday.StrictPolicy()
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanHTML strips markup from raw HTML and collects the absolute image
// URLs it referenced. Plain text input passes through untouched.
func CleanHTML(raw string) (text string, images []string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	if !strings.Contains(trimmed, "<") {
		return trimmed, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		// Not parseable as HTML; fall back to tag stripping.
		return collapseWhitespace(html.UnescapeString(stripPolicy.Sanitize(trimmed))), nil
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
			images = append(images, src)
		}
	})
	return collapseWhitespace(doc.Text()), images
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Truncate caps text at max runes, breaking at a word boundary when one
// falls close enough to the cap, and marks the cut with "...".
func Truncate(text string, max int) string {
	const suffix = "..."
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := max - len(suffix)
	if cut <= 0 {
		return string([]rune(suffix)[:max])
	}
	truncated := runes[:cut]
	// Last space position in runes, the same unit as cut.
	last := -1
	for i, r := range truncated {
		if r == ' ' {
			last = i
		}
	}
	if last > 0 && float64(last) > float64(cut)*0.7 {
		truncated = truncated[:last]
	}
	return strings.TrimRight(string(truncated), " ") + suffix
}

// CleanTitle strips any markup and entities from a feed title and caps
// it at the display limit.
func CleanTitle(title string) string {
	text := title
	if strings.Contains(title, "<") {
		text, _ = CleanHTML(title)
	}
	text = collapseWhitespace(html.UnescapeString(text))
	return Truncate(text, MaxTitleLength)
}

// CleanSummary strips markup from a summary and caps it at the display
// limit, returning any embedded image URLs as a side product.
func CleanSummary(summary string) (text string, images []string) {
	text, images = CleanHTML(summary)
	return Truncate(html.UnescapeString(text), MaxSummaryLength), images
}

// SourceName maps an article URL to a publisher display name in the
// given language ("en" or a zh-* code). Unknown domains fall back to a
// title-cased second-level label.
func SourceName(articleURL, language string) string {
	parsed, err := url.Parse(articleURL)
	if err != nil || parsed.Host == "" {
		return "Unknown"
	}
	domain := strings.ToLower(parsed.Hostname())
	domain = strings.TrimPrefix(domain, "www.")

	langKey := "en"
	if strings.HasPrefix(strings.ToLower(language), "zh") {
		langKey = "zh"
	}

	if names, ok := domainToSource[domain]; ok {
		return names[langKey]
	}
	for known, names := range domainToSource {
		if strings.HasSuffix(domain, "."+known) {
			return names[langKey]
		}
	}

	parts := strings.Split(domain, ".")
	if len(parts) >= 2 {
		return strings.Title(parts[len(parts)-2])
	}
	return domain
}

// IsValidImageURL reports whether url plausibly points at an image: an
// image file extension or a known image-hosting domain.
func IsValidImageURL(imageURL string) bool {
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		return false
	}
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(parsed.Path)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	host := strings.ToLower(parsed.Host)
	for _, imageHost := range []string{"imgur.com", "i.imgur.com", "pbs.twimg.com", "media."} {
		if strings.Contains(host, imageHost) {
			return true
		}
	}
	return false
}
