package auditor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/aws-edge-audit/model"
)

func albNode(id, scheme string) model.Node {
	return model.Node{ID: id, Type: model.NodeALB, Details: model.NodeDetails{Name: id, Scheme: scheme, AccountID: "123456789012"}}
}

func TestAuditUnprotectedPublicALB(t *testing.T) {
	graph := model.Graph{Nodes: []model.Node{albNode("alb:a", model.SchemeInternetFacing)}}

	findings := Audit(graph)
	require.Len(t, findings, 1)
	assert.Equal(t, model.SeverityHigh, findings[0].Severity)
	assert.Equal(t, model.FindingUnprotectedALB, findings[0].Type)
	assert.Equal(t, descUnprotectedALB, findings[0].Description)

	graph.Nodes = append(graph.Nodes, model.Node{ID: "waf:w", Type: model.NodeWAF, Details: model.NodeDetails{Name: "w", AssociatedResources: 1}})
	graph.Edges = []model.Edge{{Source: "alb:a", Target: "waf:w", Label: model.RelationProtectedBy, Confidence: model.ConfidenceConfirmed}}
	assert.Empty(t, Audit(graph))
}

func TestAuditIgnoresInternalALB(t *testing.T) {
	graph := model.Graph{Nodes: []model.Node{albNode("alb:a", model.SchemeInternal)}}
	assert.Empty(t, Audit(graph))
}

func TestAuditOrphanDNS(t *testing.T) {
	dns := model.Node{ID: "dns:www.example.com.", Type: model.NodeDNS, Details: model.NodeDetails{
		Name:       "www.example.com.",
		Zone:       "example.com.",
		Target:     "gone.elb.amazonaws.com",
		TargetType: model.TargetTypeELB,
	}}
	findings := Audit(model.Graph{Nodes: []model.Node{dns}})
	require.Len(t, findings, 1)
	assert.Equal(t, model.SeverityMedium, findings[0].Severity)
	assert.Equal(t, "gone.elb.amazonaws.com", findings[0].Target)
	assert.Equal(t, "example.com.", findings[0].Zone)
}

func TestAuditUnusedWAF(t *testing.T) {
	tests := []struct {
		name    string
		details model.NodeDetails
		edges   []model.Edge
		want    int
	}{
		{name: "unused", details: model.NodeDetails{Name: "idle"}, want: 1},
		{name: "associated", details: model.NodeDetails{Name: "busy", AssociatedResources: 2}, want: 0},
		{name: "inferred", details: model.NodeDetails{Name: "ghost", Inferred: true}, want: 0},
		{
			name:    "linked from load balancer",
			details: model.NodeDetails{Name: "linked"},
			edges:   []model.Edge{{Source: "alb:x", Target: "waf:w", Label: model.RelationProtectedBy}},
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph := model.Graph{
				Nodes: []model.Node{{ID: "waf:w", Type: model.NodeWAF, Details: tt.details}},
				Edges: tt.edges,
			}
			findings := Audit(graph)
			assert.Len(t, findings, tt.want)
			for _, f := range findings {
				assert.Equal(t, model.SeverityLow, f.Severity)
			}
		})
	}
}

func TestAuditOrdering(t *testing.T) {
	graph := model.Graph{Nodes: []model.Node{
		{ID: "waf:w", Type: model.NodeWAF, Details: model.NodeDetails{Name: "w"}},
		{ID: "dns:a.", Type: model.NodeDNS, Details: model.NodeDetails{Name: "a.", TargetType: model.TargetTypeELB}},
		albNode("alb:z", model.SchemeInternetFacing),
		albNode("alb:b", model.SchemeInternetFacing),
	}}

	findings := Audit(graph)
	require.Len(t, findings, 4)
	var subjects []string
	for _, f := range findings {
		subjects = append(subjects, f.Subject)
	}
	assert.Equal(t, []string{"alb:b", "alb:z", "dns:a.", "waf:w"}, subjects)

	counts := CountBySeverity(findings)
	assert.Equal(t, map[string]int{model.SeverityHigh: 2, model.SeverityMedium: 1, model.SeverityLow: 1}, counts)
}
