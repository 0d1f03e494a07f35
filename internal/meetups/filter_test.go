package meetups

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Filter
		want    Filter
		wantErr bool
	}{
		{
			name: "collapses city whitespace and trims query",
			in:   Filter{City: "  Набережные   Челны ", Query: "  чай "},
			want: Filter{City: "Набережные Челны", Query: "чай"},
		},
		{
			name: "same day range",
			in:   Filter{From: "2025-05-01", To: "2025-05-01"},
			want: Filter{From: "2025-05-01", To: "2025-05-01"},
		},
		{name: "from after to", in: Filter{From: "2025-05-02", To: "2025-05-01"}, wantErr: true},
		{name: "malformed day", in: Filter{From: "01.05.2025"}, wantErr: true},
		{name: "unknown gender", in: Filter{Gender: "unknown"}, wantErr: true},
		{name: "query too long", in: Filter{Query: strings.Repeat("я", 121)}, wantErr: true},
		{name: "all gender kept", in: Filter{Gender: GenderAll}, want: Filter{Gender: GenderAll}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalize()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterEncode(t *testing.T) {
	f, err := Filter{City: "Казань", From: "2025-05-01", To: "2025-05-03", Gender: GenderFemale}.Normalize()
	require.NoError(t, err)

	q := url.Values{}
	require.NoError(t, f.encode(q))
	require.NoError(t, FirstPage().encode(q))

	assert.Equal(t, "Казань", q.Get("city"))
	assert.Equal(t, "2025-05-01T00:00:00.000Z", q.Get("from"))
	assert.Equal(t, "2025-05-03T23:59:59.999Z", q.Get("to"))
	assert.Equal(t, "female", q.Get("gender"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "0", q.Get("offset"))
	assert.False(t, q.Has("q"), "empty fields are not sent")
}

func TestPageNext(t *testing.T) {
	p := FirstPage().Next().Next()
	assert.Equal(t, Page{Limit: 10, Offset: 20}, p)
	assert.Error(t, Page{Offset: -1}.encode(url.Values{}))
}
