package htmlutil

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var brTags = []string{"<br />", "<br/>", "<br>"}

// StripTags flattens an HTML fragment to plain text, preserving <br> line
// breaks and decoding entities.
func StripTags(fragment string) string {
	for _, br := range brTags {
		fragment = strings.ReplaceAll(fragment, br, "\n")
	}
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(GetText(root))
}
