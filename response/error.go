// response/error.go
// Package response judges HTTP responses and turns failed ones into typed errors.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"github.com/deploymenttheory/go-jamfpi/status"
	"golang.org/x/net/html"
)

// proErrorBody is the error document returned by the versioned API.
type proErrorBody struct {
	HTTPStatus int `json:"httpStatus"`
	Errors     []struct {
		Code        string  `json:"code"`
		Field       string  `json:"field"`
		Description string  `json:"description"`
		ID          *string `json:"id"`
	} `json:"errors"`
	Message string `json:"message"`
}

// NewHTTPResponseError builds an HTTPResponseError from resp and its already read body. The
// message is extracted according to the response content type.
func NewHTTPResponseError(resp *http.Response, body []byte) *apierrors.HTTPResponseError {
	e := &apierrors.HTTPResponseError{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		if resp.Request.URL != nil {
			e.URL = resp.Request.URL.String()
		}
	}

	switch bodyKind(resp.Header.Get("Content-Type")) {
	case "json":
		e.Message = parseJSONMessage(body)
	case "xml":
		e.Message = parseXMLMessage(body)
	case "html":
		e.Message = parseHTMLMessage(body)
	case "text":
		e.Message = strings.TrimSpace(string(body))
	}

	if e.Message == "" {
		e.Message = status.TranslateStatusCode(resp)
	}
	return e
}

func parseJSONMessage(body []byte) string {
	var doc proErrorBody
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}

	var messages []string
	for _, item := range doc.Errors {
		msg := item.Description
		if item.Field != "" {
			msg = fmt.Sprintf("%s: %s", item.Field, msg)
		}
		if item.Code != "" {
			msg = fmt.Sprintf("[%s] %s", item.Code, msg)
		}
		messages = append(messages, strings.TrimSpace(msg))
	}
	if len(messages) == 0 {
		return doc.Message
	}
	return strings.Join(messages, "; ")
}

// parseXMLMessage joins the non-blank text nodes of an XML error document.
func parseXMLMessage(body []byte) string {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var messages []string
	var traverse func(*xmlquery.Node)
	traverse = func(n *xmlquery.Node) {
		if n.Type == xmlquery.TextNode && strings.TrimSpace(n.Data) != "" {
			messages = append(messages, strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return strings.Join(messages, "; ")
}

// parseHTMLMessage concatenates the text of every <p> element, the form the classic API
// uses for its error pages.
func parseHTMLMessage(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var messages []string
	var collect func(*html.Node, *strings.Builder)
	collect = func(n *html.Node, sb *strings.Builder) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				sb.WriteString(text + " ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c, sb)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			var sb strings.Builder
			collect(n, &sb)
			if text := strings.TrimSpace(sb.String()); text != "" {
				messages = append(messages, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(messages, "; ")
}
