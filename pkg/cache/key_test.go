package cache

import (
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "operation without discriminant",
			key:  Key{Domain: "news", Operation: "categories"},
			want: "news:categories",
		},
		{
			name: "slug discriminant",
			key:  Key{Domain: "news", Operation: "slug", Discriminant: "budget-vote-2026"},
			want: "news:slug:budget-vote-2026",
		},
		{
			name: "id discriminant",
			key:  Key{Domain: "services", Operation: "id", Discriminant: "42"},
			want: "services:id:42",
		},
		{
			name: "serialized params discriminant",
			key: Key{
				Domain:       "events",
				Operation:    "list",
				Discriminant: SerializeParams(map[string]string{"page": "1", "pageSize": "10"}),
			},
			want: "events:list:page=1&pageSize=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.want {
				t.Errorf("Key.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSerializeParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{
			name:   "nil params",
			params: nil,
			want:   "",
		},
		{
			name:   "empty params",
			params: map[string]string{},
			want:   "",
		},
		{
			name:   "single param",
			params: map[string]string{"page": "1"},
			want:   "page=1",
		},
		{
			name: "multiple params sorted",
			params: map[string]string{
				"pageSize": "10",
				"category": "infrastructure",
				"page":     "2",
			},
			want: "category=infrastructure&page=2&pageSize=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SerializeParams(tt.params)
			if got != tt.want {
				t.Errorf("SerializeParams() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSerializeParams_Determinism ensures semantically equal parameter
// sets always serialize identically regardless of construction order.
func TestSerializeParams_Determinism(t *testing.T) {
	a := map[string]string{}
	a["page"] = "1"
	a["pageSize"] = "10"
	a["search"] = "transit"

	b := map[string]string{}
	b["search"] = "transit"
	b["pageSize"] = "10"
	b["page"] = "1"

	results := make([]string, 0, 20)
	for i := 0; i < 10; i++ {
		results = append(results, SerializeParams(a), SerializeParams(b))
	}

	first := results[0]
	for i, result := range results {
		if result != first {
			t.Errorf("result[%d] = %v, want %v (not deterministic)", i, result, first)
		}
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		params   map[string]string
		want     string
	}{
		{
			name:     "no params",
			endpoint: "/api/v1/news/categories",
			params:   nil,
			want:     "/api/v1/news/categories",
		},
		{
			name:     "params sorted",
			endpoint: "/api/v1/news",
			params:   map[string]string{"pageSize": "10", "page": "1"},
			want:     "/api/v1/news?page=1&pageSize=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Signature(tt.endpoint, tt.params)
			if got != tt.want {
				t.Errorf("Signature() = %v, want %v", got, tt.want)
			}
		})
	}
}
