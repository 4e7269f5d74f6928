package attachment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToURLs(t *testing.T) {
	r := NewResolver("/uploads/")

	assert.Equal(t, []string{}, r.ToURLs(""))
	assert.Equal(t, []string{"/uploads/1-a.png"}, r.ToURLs("1-a.png"))
	assert.Equal(t,
		[]string{"/uploads/1-a.png", "/uploads/2-b.pdf"},
		r.ToURLs("1-a.png;; ;2-b.pdf;"),
	)
}

func TestResolverDefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPublicPath, NewResolver("").PublicPath())
	assert.Equal(t, "/files", NewResolver("/files").PublicPath())
}

func TestNamer(t *testing.T) {
	n := NewNamer(func() time.Time { return time.UnixMilli(1700000000123) })

	assert.Equal(t, "1700000000123-report.pdf", n.Name("report.pdf"))
	assert.Equal(t, "1700000000123-shot.png", n.Name("../../etc/shot.png"))
	assert.Equal(t, "1700000000123-shot.png", n.Name(`C:\Users\ops\shot.png`))
	assert.Equal(t, "1700000000123-a_b_c.txt", n.Name("a;b,c.txt"))
	assert.Equal(t, "1700000000123-upload", n.Name(""))
}
