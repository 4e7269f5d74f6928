package csvtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQuotesEveryValue(t *testing.T) {
	out := Encode(Table{
		Header: []string{"ticket_id", "description"},
		Records: []Record{
			{"ticket_id": "KASI-LOS5-20240101-NET-0001", "description": `link "core-1" down, flapping`},
			{"ticket_id": "KASI-LOS5-20240101-NET-0002"},
		},
	})

	want := "ticket_id,description\n" +
		`"KASI-LOS5-20240101-NET-0001","link ""core-1"" down, flapping"` + "\n" +
		`"KASI-LOS5-20240101-NET-0002",""` + "\n"
	assert.Equal(t, want, out)
}

func TestRoundTrip(t *testing.T) {
	tbl := Table{
		Header: []string{"a", "b", "c"},
		Records: []Record{
			{"a": "plain", "b": "with,comma", "c": ""},
			{"a": `"`, "b": `""`, "c": `end"`},
			{"a": "", "b": "", "c": ""},
			{"a": `",`, "b": "x;y;z", "c": "2024-01-02 10:11:12.345"},
		},
	}

	got := Decode(Encode(tbl))
	require.Equal(t, tbl.Header, got.Header)
	assert.Equal(t, tbl.Records, got.Records)
}

func TestDecodeIsPermissive(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Record
	}{
		{
			name: "missing trailing columns become empty",
			text: "a,b,c\n\"1\"\n",
			want: []Record{{"a": "1", "b": "", "c": ""}},
		},
		{
			name: "unquoted tokens are accepted",
			text: "a,b\nfoo,bar\n",
			want: []Record{{"a": "foo", "b": "bar"}},
		},
		{
			name: "surplus tokens are ignored",
			text: "a\n\"1\",\"2\"\n",
			want: []Record{{"a": "1"}},
		},
		{
			name: "crlf line endings",
			text: "a,b\r\n\"1\",\"2\"\r\n",
			want: []Record{{"a": "1", "b": "2"}},
		},
		{
			name: "blank lines carry no record",
			text: "a\n\n\"1\"\n\n",
			want: []Record{{"a": "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.text).Records)
		})
	}
}

func TestDecodeHeaderStripsQuotes(t *testing.T) {
	assert.Equal(t, []string{"ticket_id", "status"}, DecodeHeader(`"ticket_id","status"`))
}

func TestDecodeEmpty(t *testing.T) {
	got := Decode("")
	assert.Nil(t, got.Header)
	assert.Empty(t, got.Records)

	got = Decode("a,b\n")
	assert.Equal(t, []string{"a", "b"}, got.Header)
	assert.Empty(t, got.Records)
}
