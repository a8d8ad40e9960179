package airbnbweb

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"

	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/stays"
)

func parseDocument(html []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, stays.ParseError{Reason: "invalid HTML document: " + err.Error()}
	}
	return doc, nil
}

// nextData returns the parsed script#__NEXT_DATA__ payload when present.
func nextData(doc *goquery.Document) (jsontree.Node, bool) {
	text := doc.Find("script#__NEXT_DATA__").First().Text()
	if text == "" {
		return jsontree.Node{}, false
	}
	node, err := jsontree.Parse([]byte(text))
	if err != nil {
		return jsontree.Node{}, false
	}
	return node, true
}

// deferredStatePayloads collects candidate payloads from deferred-state
// scripts. Current pages wrap GraphQL responses in a niobeClientData array
// of [key, payload] pairs; older pages inline the payload directly, so the
// outer document is yielded after any wrapped entries.
func deferredStatePayloads(doc *goquery.Document) []jsontree.Node {
	var payloads []jsontree.Node
	doc.Find("script[data-deferred-state], script[id^='data-deferred-state']").
		Each(func(_ int, script *goquery.Selection) {
			node, err := jsontree.Parse([]byte(script.Text()))
			if err != nil {
				return
			}
			for _, entry := range node.Get("niobeClientData").Arr() {
				if inner := entry.Index(1); inner.Exists() {
					payloads = append(payloads, inner)
				}
			}
			payloads = append(payloads, node)
		})
	return payloads
}
