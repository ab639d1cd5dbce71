package fetch

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Length limits for extracted fields
const (
	MinTitleLength       = 5
	MaxTitleLength       = 200
	MinDescriptionLength = 100
	MaxDescriptionLength = 10000
	maxCompanyLength     = 100
)

var (
	titleSuffix = regexp.MustCompile(`\s*[-|]\s*.+$`)

	invalidTitlePhrases = []string{
		"cookie", "accept", "vælg", "choose", "privacy", "terms",
		"navigation", "menu", "skip to", "log in", "sign in",
	}
	bannerKeywords = []string{"cookie", "consent", "privacy policy", "terms of service"}
)

// Posting holds the fields extracted from a job posting page
type Posting struct {
	Title       string
	Company     string
	Description string
}

// Empty reports whether neither a title nor a description was found
func (p Posting) Empty() bool {
	return p.Title == "" && p.Description == ""
}

// ParsePosting extracts a posting from server-rendered HTML. The first description
// container with enough text wins.
func ParsePosting(html string, platform Platform) (Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Posting{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	posting := Posting{
		Title:   extractTitle(doc, platform),
		Company: extractCompany(doc),
	}
	metaDescription, _ := doc.Find("meta[name='description']").First().Attr("content")

	removeNoise(doc)
	for _, selector := range descriptionSelectors(platform) {
		text := cleanText(doc.Find(selector).First().Text())
		if IsValidDescription(text) {
			posting.Description = truncate(text, MaxDescriptionLength)
			return posting, nil
		}
	}

	if text := cleanText(metaDescription); IsValidDescription(text) {
		posting.Description = truncate(text, MaxDescriptionLength)
	}
	return posting, nil
}

// ParseRenderedPosting extracts a posting from browser-rendered HTML. Every matching
// block is considered and the longest one wins.
func ParseRenderedPosting(html string, platform Platform) (Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Posting{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	removeNoise(doc)
	posting := Posting{
		Title:   extractTitle(doc, platform),
		Company: extractCompany(doc),
	}

	best := ""
	for _, selector := range renderedDescriptionSelectors(platform) {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := cleanText(s.Text())
			if utf8.RuneCountInString(text) > MinDescriptionLength && len(text) > len(best) {
				best = text
			}
		})
	}
	posting.Description = truncate(best, MaxDescriptionLength)
	return posting, nil
}

// IsValidJobTitle rejects text that is too short or too long, or looks like a cookie
// banner or menu label
func IsValidJobTitle(text string) bool {
	n := utf8.RuneCountInString(text)
	if strings.TrimSpace(text) == "" || n < MinTitleLength || n > MaxTitleLength {
		return false
	}

	lower := strings.ToLower(text)
	for _, phrase := range invalidTitlePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

// IsValidDescription rejects short text and text that opens like a cookie or privacy banner
func IsValidDescription(text string) bool {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) < MinDescriptionLength {
		return false
	}

	start := strings.ToLower(truncateRunes(text, 200))
	hits := 0
	for _, keyword := range bannerKeywords {
		if strings.Contains(start, keyword) {
			hits++
		}
	}
	return hits < 2
}

func extractTitle(doc *goquery.Document, platform Platform) string {
	if content, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok {
		if text := cleanText(content); IsValidJobTitle(text) {
			return text
		}
	}

	for _, selector := range titleSelectors(platform) {
		if text := cleanText(doc.Find(selector).First().Text()); IsValidJobTitle(text) {
			return text
		}
	}

	text := titleSuffix.ReplaceAllString(cleanText(doc.Find("title").First().Text()), "")
	if IsValidJobTitle(text) {
		return text
	}
	return ""
}

func extractCompany(doc *goquery.Document) string {
	if content, ok := doc.Find("meta[property='og:site_name']").First().Attr("content"); ok {
		if text := cleanText(content); text != "" && utf8.RuneCountInString(text) < maxCompanyLength {
			return text
		}
	}

	if alt, ok := doc.Find("a[href*='/jobs'] img[alt]").First().Attr("alt"); ok {
		if text := cleanText(alt); validCompany(text) {
			return text
		}
	}

	for _, selector := range companySelectors {
		if text := cleanText(doc.Find(selector).First().Text()); validCompany(text) {
			return text
		}
	}
	return ""
}

func validCompany(text string) bool {
	n := utf8.RuneCountInString(text)
	return n > 2 && n < maxCompanyLength
}

func removeNoise(doc *goquery.Document) {
	doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
}

// truncate caps text at limit runes, marking the cut with "..."
func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return truncateRunes(text, limit) + "..."
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}
