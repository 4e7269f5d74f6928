// Package render builds the downloadable document for a single ticket.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

func markdownRenderer() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdown
}

type section struct {
	title  string
	fields []labelled
}

type labelled struct {
	label string
	name  string
}

var sections = []section{
	{"Summary", []labelled{
		{"Category", domain.FieldCategory},
		{"Sub-category", domain.FieldSubCategory},
		{"Priority", domain.FieldPriority},
		{"Status", domain.FieldStatus},
		{"Building", domain.FieldBuilding},
		{"Location", domain.FieldLocation},
		{"Impacted", domain.FieldImpacted},
	}},
	{"Reporting", []labelled{
		{"Opened", domain.FieldOpened},
		{"Reported by", domain.FieldReportedBy},
		{"Contact", domain.FieldContactInfo},
		{"Detected by", domain.FieldDetectedBy},
		{"Time detected", domain.FieldTimeDetected},
		{"Assigned to", domain.FieldAssignedTo},
	}},
	{"Resolution", []labelled{
		{"Root cause", domain.FieldRootCause},
		{"Actions taken", domain.FieldActionsTaken},
		{"Resolution summary", domain.FieldResolutionSummary},
		{"Resolution time", domain.FieldResolutionTime},
		{"Closed", domain.FieldClosed},
		{"Duration", domain.FieldDuration},
		{"SLA breach", domain.FieldSLABreach},
		{"Post review", domain.FieldPostReview},
		{"Escalation history", domain.FieldEscalationHistory},
	}},
}

// Markdown renders the ticket as a Markdown report. Column values are
// escaped so free text cannot inject markup.
func Markdown(ticket domain.Ticket, attachmentURLs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Incident %s\n\n", escapeInline(ticket.TicketID))

	if ticket.Description != "" {
		b.WriteString("## Description\n\n")
		b.WriteString(escapeInline(ticket.Description))
		b.WriteString("\n\n")
	}

	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n\n| Field | Value |\n| --- | --- |\n", s.title)
		for _, f := range s.fields {
			value := ticket.Get(f.name)
			if f.name == domain.FieldAssignedTo {
				value = strings.ReplaceAll(value, domain.ListSeparator, ", ")
			}
			fmt.Fprintf(&b, "| %s | %s |\n", f.label, escapeCell(value))
		}
		b.WriteString("\n")
	}

	if len(attachmentURLs) > 0 {
		b.WriteString("## Attachments\n\n")
		for _, u := range attachmentURLs {
			name := u[strings.LastIndex(u, "/")+1:]
			fmt.Fprintf(&b, "- [%s](%s)\n", escapeInline(name), u)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders the ticket as a standalone HTML document.
func HTML(ticket domain.Ticket, attachmentURLs []string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdownRenderer().Convert([]byte(Markdown(ticket, attachmentURLs)), &body); err != nil {
		return nil, fmt.Errorf("render ticket %s: %w", ticket.TicketID, err)
	}

	var doc bytes.Buffer
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&doc, "<title>Incident %s</title>\n", html.EscapeString(ticket.TicketID))
	doc.WriteString("<style>body{font-family:sans-serif;max-width:48em;margin:2em auto}" +
		"table{border-collapse:collapse;width:100%}td,th{border:1px solid #ccc;padding:4px 8px;text-align:left}</style>\n")
	doc.WriteString("</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.Bytes(), nil
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`,
	"<", "&lt;", ">", "&gt;", "#", `\#`,
)

func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}

func escapeCell(s string) string {
	s = escapeInline(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
