package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

func sampleTicket() domain.Ticket {
	return domain.Ticket{
		TicketID:    "KASI-LOS1-20240101-NET-0001",
		Category:    "Network",
		Status:      "Closed",
		Description: "Uplink <script>alert(1)</script> down",
		AssignedTo:  "Jesse Etuk;Opeyemi Akintelure",
		RootCause:   "bad | optic\nreplaced",
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleTicket(), []string{"/uploads/1-a.png"})

	assert.True(t, strings.HasPrefix(md, "# Incident KASI-LOS1-20240101-NET-0001\n"))
	assert.Contains(t, md, "| Assigned to | Jesse Etuk, Opeyemi Akintelure |")
	assert.Contains(t, md, `| Root cause | bad \| optic replaced |`)
	assert.Contains(t, md, "- [1-a.png](/uploads/1-a.png)")
	assert.NotContains(t, md, "<script>")
}

func TestHTML(t *testing.T) {
	doc, err := HTML(sampleTicket(), []string{"/uploads/1-a.png"})
	require.NoError(t, err)

	out := string(doc)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Incident KASI-LOS1-20240101-NET-0001</title>")
	assert.Contains(t, out, "<h1>Incident KASI-LOS1-20240101-NET-0001</h1>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>Network</td>")
	assert.Contains(t, out, `<a href="/uploads/1-a.png">1-a.png</a>`)
	assert.NotContains(t, out, "<script>")
}

func TestHTMLWithoutAttachments(t *testing.T) {
	doc, err := HTML(domain.Ticket{TicketID: "X-1"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(doc), "Attachments")
}
