// AngelaMos | 2026
// repository_test.go

package delivery

import (
	"strings"
	"testing"
)

func TestUpdateStatusQuery(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		conductor string
		want      []string
		notWant   []string
	}{
		{
			name:    "returned stamps dates",
			status:  StatusReturned,
			want:    []string{"delivery_date = NOW()", "returned_at = NOW()", "user_id = $"},
			notWant: []string{"conductors"},
		},
		{
			name:    "delivered clears returned_at",
			status:  StatusDelivered,
			want:    []string{"returned_at = $"},
			notWant: []string{"delivery_date"},
		},
		{
			name:      "conductor filter only matches active conductors",
			status:    StatusDelivered,
			conductor: "Juan",
			want:      []string{"FROM conductors WHERE user_id = $", "AND is_active"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := updateStatusQuery(
				"tenant-a", []string{"T1", "T2"}, tt.status, tt.conductor,
			).ToSql()
			if err != nil {
				t.Fatalf("build: %v", err)
			}

			for _, s := range tt.want {
				if !strings.Contains(query, s) {
					t.Errorf("query missing %q: %s", s, query)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(query, s) {
					t.Errorf("query has %q: %s", s, query)
				}
			}

			if tt.conductor != "" && args[len(args)-1] != tt.conductor {
				t.Errorf("last arg = %v, want %q", args[len(args)-1], tt.conductor)
			}
		})
	}
}
