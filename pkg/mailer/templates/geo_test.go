package templates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPAPIResolver_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/203.0.113.9", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","country":"Turkey","regionName":"Istanbul","city":"Kadikoy","timezone":"Europe/Istanbul"}`))
	}))
	defer srv.Close()

	g, err := IPAPIResolver{BaseURL: srv.URL + "/"}.Lookup(context.Background(), "203.0.113.9")

	require.NoError(t, err)
	assert.Equal(t, "Kadikoy, Istanbul, Turkey", FormatGeo(g))
}

func TestIPAPIResolver_RejectsPrivate(t *testing.T) {
	_, err := IPAPIResolver{BaseURL: "http://invalid.test/"}.Lookup(context.Background(), "192.168.1.10")
	assert.Error(t, err)

	_, err = IPAPIResolver{}.Lookup(context.Background(), "not-an-ip")
	assert.Error(t, err)
}

func TestIPAPIResolver_FailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer srv.Close()

	_, err := IPAPIResolver{BaseURL: srv.URL + "/"}.Lookup(context.Background(), "203.0.113.9")
	assert.ErrorContains(t, err, "reserved range")
}

type stubResolver struct {
	geo   Geo
	calls int
}

func (s *stubResolver) Lookup(context.Context, string) (Geo, error) {
	s.calls++
	return s.geo, nil
}

func TestEnrichLocation(t *testing.T) {
	r := &stubResolver{geo: Geo{City: "Ankara", Country: "Turkey"}}

	data := map[string]any{"IP": "203.0.113.9"}
	EnrichLocation(context.Background(), r, data)
	assert.Equal(t, "Ankara, Turkey", data["Location"])

	data = map[string]any{"IP": "203.0.113.9", "Location": "Izmir"}
	EnrichLocation(context.Background(), r, data)
	assert.Equal(t, "Izmir", data["Location"])

	EnrichLocation(context.Background(), r, map[string]any{})
	assert.Equal(t, 1, r.calls)
}
