package content

import "testing"

func TestBaseID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "no variant suffix",
			id:   "CH-01",
			want: "CH-01",
		},
		{
			name: "single digit variant",
			id:   "CH-05-V2",
			want: "CH-05",
		},
		{
			name: "multi digit variant",
			id:   "CH-05-V12",
			want: "CH-05",
		},
		{
			name: "position bullet variant",
			id:   "P1-B02-V3",
			want: "P1-B02",
		},
		{
			name: "position overview without variant",
			id:   "P2-OV",
			want: "P2-OV",
		},
		{
			name: "lowercase marker is not a variant",
			id:   "CH-05-v2",
			want: "CH-05-v2",
		},
		{
			name: "variant marker without digits",
			id:   "CH-05-V",
			want: "CH-05-V",
		},
		{
			name: "variant marker with trailing letter",
			id:   "CH-05-V2x",
			want: "CH-05-V2x",
		},
		{
			name: "variant marker mid-string",
			id:   "CH-V2-01",
			want: "CH-V2-01",
		},
		{
			name: "empty id",
			id:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BaseID(tt.id)
			if got != tt.want {
				t.Errorf("BaseID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestBaseIDIdempotent(t *testing.T) {
	ids := []string{"CH-05-V2", "CH-05", "P1-B02-V10", "SUM-01", ""}

	for _, id := range ids {
		once := BaseID(id)
		twice := BaseID(once)
		if once != twice {
			t.Errorf("BaseID not idempotent for %q: first %q, second %q", id, once, twice)
		}
	}
}
