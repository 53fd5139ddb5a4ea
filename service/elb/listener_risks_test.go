package elb

import (
	"testing"

	"github.com/thirukguru/aws-edge-audit/model"
)

func TestListenerRisks(t *testing.T) {
	tests := []struct {
		name      string
		scheme    string
		listeners []model.Listener
		want      []string
	}{
		{
			name:      "http only internet facing",
			scheme:    model.SchemeInternetFacing,
			listeners: []model.Listener{{Protocol: "HTTP", Port: 80}},
			want:      []string{SeverityCritical},
		},
		{
			name:      "http only internal",
			scheme:    "internal",
			listeners: []model.Listener{{Protocol: "HTTP", Port: 80}},
		},
		{
			name:   "outdated tls",
			scheme: model.SchemeInternetFacing,
			listeners: []model.Listener{
				{Protocol: "HTTP", Port: 80},
				{Protocol: "HTTPS", Port: 443, SslPolicy: "ELBSecurityPolicy-2016-08"},
			},
			want: []string{SeverityHigh},
		},
		{
			name:      "modern tls",
			scheme:    model.SchemeInternetFacing,
			listeners: []model.Listener{{Protocol: "HTTPS", Port: 443, SslPolicy: "ELBSecurityPolicy-TLS13-1-2-2021-06"}},
		},
		{
			name:   "quick scan has no listeners",
			scheme: model.SchemeInternetFacing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lb := model.LoadBalancer{
				BasicInfo: model.LoadBalancerInfo{LoadBalancerName: "web", Scheme: tt.scheme},
				Listeners: tt.listeners,
			}
			risks := ListenerRisks(lb)
			if len(risks) != len(tt.want) {
				t.Fatalf("expected %d risks, got %d: %+v", len(tt.want), len(risks), risks)
			}
			for i, sev := range tt.want {
				if risks[i].Severity != sev {
					t.Fatalf("risk %d: expected %s, got %s", i, sev, risks[i].Severity)
				}
			}
		})
	}
}
