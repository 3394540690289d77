package domain

import "testing"

func TestSnapshotFromInfo(t *testing.T) {
	tests := []struct {
		name    string
		info    DeliveryInfo
		courier string
		status  string
	}{
		{"name wins", DeliveryInfo{CourierName: "Ana", CourierID: "e1", DeliveryStatus: "A caminho"}, "Ana", "A caminho"},
		{"id fallback", DeliveryInfo{CourierID: "e1"}, "e1", StatusAwaitingDelivery},
		{"placeholders", DeliveryInfo{}, CourierPlaceholder, StatusAwaitingDelivery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SnapshotFromInfo(tt.info)
			if got.CourierLabel != tt.courier {
				t.Errorf("expected courier %q, got %q", tt.courier, got.CourierLabel)
			}
			if got.StatusLabel != tt.status {
				t.Errorf("expected status %q, got %q", tt.status, got.StatusLabel)
			}
		})
	}
}

func TestSentinelSnapshots(t *testing.T) {
	if s := NotFoundSnapshot(); s.CourierLabel != CourierUnavailable || s.StatusLabel != StatusNotFound {
		t.Errorf("unexpected not-found snapshot: %+v", s)
	}
	if s := QueryFailedSnapshot(); s.CourierLabel != CourierUnavailable || s.StatusLabel != StatusQueryFailed {
		t.Errorf("unexpected query-failed snapshot: %+v", s)
	}
}
