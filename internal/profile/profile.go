// Package profile extracts company information from a competitor's website
// to improve search relevance without manual keyword entry.
package profile

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// CompanyInfo is what a homepage reveals about a company.
type CompanyInfo struct {
	Description string
	Products    string
	Industry    string
	FocusAreas  string
}

// Extractor fetches and parses competitor homepages.
type Extractor struct {
	httpClient *http.Client
}

// NewExtractor constructs an extractor with a bounded HTTP client.
func NewExtractor() *Extractor {
	return &Extractor{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Extract pulls description, industry and product hints from a website.
// A failed fetch returns an empty profile, not an error, since profile data
// only enriches search context.
func (e *Extractor) Extract(ctx context.Context, websiteURL string) CompanyInfo {
	var info CompanyInfo

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, websiteURL, nil)
	if err != nil {
		return info
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return info
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return info
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return info
	}

	info.Description = metaContent(doc, `meta[name="description"]`)
	if info.Description == "" {
		info.Description = metaContent(doc, `meta[property="og:description"]`)
	}
	if info.Description == "" {
		if about := extractAboutSection(doc); about != "" {
			info.Description = truncate(about, 500)
		}
	}

	info.FocusAreas = metaContent(doc, `meta[name="keywords"]`)
	info.Industry = identifyIndustry(doc, info.Description)
	info.Products = extractProducts(doc)

	return info
}

// SearchContext renders the extracted profile into a search hint for the
// upstream provider.
func SearchContext(companyName string, info CompanyInfo) string {
	parts := []string{companyName}

	if info.Industry != "" {
		parts = append(parts, fmt.Sprintf("(%s company)", info.Industry))
	}
	if info.Description != "" {
		parts = append(parts, truncate(info.Description, 200))
	}
	if info.Products != "" {
		parts = append(parts, "Products: "+info.Products)
	}

	return strings.Join(parts, " ")
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

var aboutSelectors = []string{
	"section.about", "div.about", "section#about", "div#about",
	".about-section", ".company-description",
}

func extractAboutSection(doc *goquery.Document) string {
	for _, selector := range aboutSelectors {
		if section := doc.Find(selector).First(); section.Length() > 0 {
			return strings.TrimSpace(section.Text())
		}
	}

	var about string
	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(heading.Text()), "about") {
			return true
		}
		if next := heading.NextAllFiltered("p, div").First(); next.Length() > 0 {
			about = strings.TrimSpace(next.Text())
			return false
		}
		return true
	})
	return about
}

var industryKeywords = []struct {
	industry string
	keywords []string
}{
	{"ai", []string{"artificial intelligence", "machine learning", " ai ", "llm", "neural network"}},
	{"software", []string{"software", "saas", "platform", "application", " app "}},
	{"fintech", []string{"financial", "fintech", "banking", "payment", "crypto"}},
	{"ecommerce", []string{"ecommerce", "e-commerce", "online shopping", "marketplace"}},
	{"healthcare", []string{"health", "medical", "healthcare", "pharma", "biotech"}},
	{"cybersecurity", []string{"security", "cybersecurity", "encryption", "privacy"}},
	{"cloud", []string{"cloud", "infrastructure", "hosting", "servers"}},
	{"data", []string{"data", "analytics", "database", "big data"}},
}

func identifyIndustry(doc *goquery.Document, description string) string {
	text := strings.ToLower(description + " " + doc.Text())
	for _, entry := range industryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.industry
			}
		}
	}
	return "technology"
}

var productSelectors = []string{
	"section.products", "div.products", "section#products",
	".product-list", ".services",
}

func extractProducts(doc *goquery.Document) string {
	var products []string
	for _, selector := range productSelectors {
		doc.Find(selector).First().Find("h2, h3, h4").Each(func(_ int, heading *goquery.Selection) {
			name := strings.TrimSpace(heading.Text())
			if name != "" && len(name) < 50 {
				products = append(products, name)
			}
		})
		if len(products) > 0 {
			break
		}
	}
	if len(products) > 5 {
		products = products[:5]
	}
	return strings.Join(products, ", ")
}

func truncate(text string, max int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= max {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
