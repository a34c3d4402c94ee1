package sites

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"TrendRadar/internal/domain"
)

var (
	priceExpr    = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*€|€\s*\d+(?:[.,]\d+)?`)
	discountExpr = regexp.MustCompile(`\d+\s*%`)
	promoExpr    = regexp.MustCompile(`\b[A-Z][A-Z0-9]{4,}\b`)
	hourlyExpr   = regexp.MustCompile(`(?i)/\s*h(?:ora)?\b|por hora|hourly`)
)

// collectText gathers trimmed element texts for the first selector group
// that yields anything, de-duplicating while preserving document order.
func collectText(doc *goquery.Document, selectorGroups [][]string, maxLen int) []string {
	for _, group := range selectorGroups {
		var texts []string
		seen := map[string]struct{}{}
		for _, selector := range group {
			doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
				text := strings.TrimSpace(sel.Text())
				if text == "" || (maxLen > 0 && len(text) > maxLen) {
					return
				}
				if _, ok := seen[text]; ok {
					return
				}
				seen[text] = struct{}{}
				texts = append(texts, text)
			})
		}
		if len(texts) > 0 {
			return texts
		}
	}
	return nil
}

// parseService splits a service card text into name, price and price model.
// "Limpeza — 20€/hora" becomes {Limpeza, 20€, hourly}.
func parseService(text string) domain.Service {
	svc := domain.Service{Name: text}

	price := priceExpr.FindString(text)
	if price == "" {
		return svc
	}

	name := text
	if idx := strings.Index(text, price); idx >= 0 {
		name = strings.Trim(strings.TrimSpace(text[:idx]), "-–—:| ")
	}
	if name == "" {
		name = text
	}

	svc.Name = name
	svc.Price = strings.Join(strings.Fields(price), "")
	if hourlyExpr.MatchString(text) {
		svc.PriceModel = "hourly"
	} else {
		svc.PriceModel = "flat"
	}
	return svc
}

// parsePromotion extracts the promo code (first shouty token), discount and
// description from a banner text. Banners without a code use the discount as
// the key so repeated captures stay comparable.
func parsePromotion(text string) domain.Promotion {
	promo := domain.Promotion{Description: text}

	promo.Discount = strings.Join(strings.Fields(discountExpr.FindString(text)), "")
	if code := promoExpr.FindString(text); code != "" {
		promo.Code = code
	} else if promo.Discount != "" {
		promo.Code = promo.Discount
	} else {
		promo.Code = text
	}
	return promo
}

// pricingPairs reads key/value rows (label and price cell) off a pricing page.
func pricingPairs(doc *goquery.Document) map[string]string {
	pricing := map[string]string{}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.First().Text())
		value := strings.TrimSpace(cells.Eq(1).Text())
		if label != "" && priceExpr.MatchString(value) {
			pricing[label] = strings.Join(strings.Fields(value), " ")
		}
	})

	doc.Find(".price-card, .pricing-item, .plan").Each(func(_ int, card *goquery.Selection) {
		label := strings.TrimSpace(card.Find("h2, h3, h4, .title").First().Text())
		value := strings.TrimSpace(card.Find(".price, .amount").First().Text())
		if label != "" && value != "" {
			pricing[label] = strings.Join(strings.Fields(value), " ")
		}
	})

	return pricing
}

// aboutInfo hashes the relevant prose of an about page so business-model
// drift is detectable without storing the full text.
func aboutInfo(page *Page) map[string]string {
	var blocks []string
	page.Doc.Find("main p, article p, .about p, p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 10 {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return map[string]string{}
	}

	joined := strings.Join(blocks, "\n")
	preview := joined
	if runes := []rune(preview); len(runes) > 200 {
		preview = string(runes[:200])
	}
	return map[string]string{
		"about_text_hash":    contentHash([]byte(joined)),
		"about_text_preview": preview,
	}
}
