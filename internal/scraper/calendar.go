package scraper

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"flightwatch-service/internal/airlines"
	"flightwatch-service/pkg/logger"
)

// dayOffer is one (date, price) cell extracted from a per-day price table.
type dayOffer struct {
	Date     time.Time
	Price    float64
	PriceEur float64
}

// parseDayPriceTable extracts offers from a day-granularity price calendar
// fragment. Cells without an offer are skipped. Prices are accepted only in
// the expected native currency for the route direction; TND amounts are
// converted to EUR with the supplied rate.
func parseDayPriceTable(fragment, nativeCurrency string, rate float64, log logger.Logger) []dayOffer {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		log.Warn("Could not parse day price table", "error", err)
		return nil
	}

	var offers []dayOffer
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "td" && hasClass(n, "available") {
			if offer, ok := extractOffer(n, nativeCurrency, rate, log); ok {
				offers = append(offers, offer)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return offers
}

func extractOffer(td *html.Node, nativeCurrency string, rate float64, log logger.Logger) (dayOffer, bool) {
	dateStr := attrValue(td, "data-departure")
	priceText := strings.TrimSpace(nodeText(findByClass(td, "div", "val_price_offre")))
	if dateStr == "" || priceText == "" || priceText == "-" {
		return dayOffer{}, false
	}
	if !strings.Contains(priceText, nativeCurrency) {
		// A currency other than the one this route direction implies means
		// the upstream served an unexpected view; skip rather than guess.
		return dayOffer{}, false
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		log.Warn("Could not parse calendar cell", "date", dateStr, "price", priceText, "error", err)
		return dayOffer{}, false
	}

	raw := strings.ReplaceAll(priceText, " ", "")
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	raw = strings.ReplaceAll(raw, nativeCurrency, "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Warn("Could not parse calendar cell", "date", dateStr, "price", priceText, "error", err)
		return dayOffer{}, false
	}

	if nativeCurrency == airlines.CurrencyTND {
		price := roundTo(value, 3)
		return dayOffer{
			Date:     date,
			Price:    price,
			PriceEur: roundTo(price*rate, 2),
		}, true
	}

	price := roundTo(value, 2)
	return dayOffer{Date: date, Price: price, PriceEur: price}, true
}

func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

// hasClass reports whether an element's class attribute contains name.
func hasClass(n *html.Node, name string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == name {
				return true
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// findByClass returns the first descendant element with the given tag and class.
func findByClass(n *html.Node, tag, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag && hasClass(c, class) {
			return c
		}
		if found := findByClass(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

// nodeText collects the concatenated text content under a node.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
