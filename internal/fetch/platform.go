package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformTeamtailor is the Teamtailor career site platform
	PlatformTeamtailor Platform = "teamtailor"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case strings.HasSuffix(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.HasSuffix(host, "lever.co"):
		return PlatformLever
	case strings.HasSuffix(host, "workday.com"), strings.HasSuffix(host, "myworkdayjobs.com"):
		return PlatformWorkday
	case strings.HasSuffix(host, "teamtailor.com"):
		return PlatformTeamtailor
	default:
		return PlatformUnknown
	}
}

// titleSelectors returns job title selectors, platform-specific ones first
func titleSelectors(platform Platform) []string {
	generic := []string{
		"div[data-controller='job-posting'] h1",
		"h1.text-4xl, h1[class*='font-bold']",
		"h1[class*='job-title']",
		"h1[class*='jobTitle']",
		"h1[class*='posting-headline']",
		"h1[data-qa*='job-title']",
		"main h1",
		"article h1",
		"h1",
	}

	switch platform {
	case PlatformGreenhouse:
		return append([]string{".app-title", ".job__title h1"}, generic...)
	case PlatformLever:
		return append([]string{".posting-headline h2"}, generic...)
	case PlatformWorkday:
		return append([]string{"[data-automation-id='jobPostingHeader']"}, generic...)
	default:
		return generic
	}
}

// descriptionSelectors returns description container selectors, platform-specific ones first
func descriptionSelectors(platform Platform) []string {
	generic := []string{
		"div[data-controller='job-posting'] div[class*='user-content']",
		"div[class*='job-details']",
		"div[class*='job-description']",
		"div[class*='jobDescription']",
		"div#job-description",
		"section[class*='description']",
		"article[class*='job']",
		"div[data-qa*='job-description']",
		"main div[class*='content']",
		"article",
		"main",
	}

	switch platform {
	case PlatformGreenhouse:
		return append([]string{".job__description", "#content"}, generic...)
	case PlatformLever:
		return append([]string{".posting-page .section-wrapper.page-full-width", ".posting-description"}, generic...)
	case PlatformWorkday:
		return append([]string{"[data-automation-id='jobPostingDescription']"}, generic...)
	default:
		return generic
	}
}

// renderedDescriptionSelectors are tried on browser-rendered pages, where the longest
// matching block wins
func renderedDescriptionSelectors(platform Platform) []string {
	selectors := []string{
		"div[data-controller='job-posting'] div[class*='user-content']",
		"div[class*='job-description']",
		"div[data-qa='job-description']",
		"main",
		"article",
		"div[role='main']",
	}
	if platform == PlatformWorkday {
		selectors = append(selectors, "[data-automation-id='jobPostingDescription']")
	}
	return selectors
}

// companySelectors locate an employer name when og:site_name is missing
var companySelectors = []string{
	"div[class*='company-name']",
	"span[class*='company']",
	"div[class*='company']",
	"a[class*='company']",
	"[class*='employer']",
	"[data-qa*='company']",
}

// noiseSelectors are removed before a description is extracted
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"[id*='cookie']", "[class*='cookie']", "[id*='consent']", "[class*='consent']",
	"nav", "header[role='banner']", "[class*='navigation']",
}
