// Package resourcearn parses AWS resource ARNs and normalizes DNS names.
package resourcearn

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/thirukguru/aws-edge-audit/model"
)

type friendlyEntry struct {
	prefix string
	name   string
}

// friendlyTypes is keyed by service; entries are matched by longest resource prefix.
var friendlyTypes = map[string][]friendlyEntry{
	"elasticloadbalancing": {
		{"loadbalancer/app", "Application Load Balancer"},
		{"loadbalancer/net", "Network Load Balancer"},
		{"loadbalancer", "Classic Load Balancer"},
	},
	"apigateway": {
		{"restapis", "REST API"},
		{"apis", "HTTP/WebSocket API"},
	},
	"appsync":         {{"apis", "GraphQL API"}},
	"cloudfront":      {{"distribution", "CloudFront Distribution"}},
	"cognito-idp":     {{"userpool", "Cognito User Pool"}},
	"app-runner":      {{"service", "App Runner Service"}},
	"apprunner":       {{"service", "App Runner Service"}},
	"verified-access": {{"instance", "Verified Access Instance"}},
}

// Parse splits an ARN into its components. It never fails: a malformed ARN
// yields a best-effort record with Error set.
func Parse(raw string) model.ResourceRecord {
	rec := model.ResourceRecord{ARN: raw}

	parsed, err := arn.Parse(raw)
	if err != nil {
		rec.Error = fmt.Sprintf("failed to parse ARN: %v", err)
		parts := strings.SplitN(raw, ":", 6)
		fields := []*string{nil, &rec.Partition, &rec.Service, &rec.Region, &rec.AccountID, &rec.Resource}
		for i := 1; i < len(parts) && i < len(fields); i++ {
			*fields[i] = parts[i]
		}
	} else {
		rec.Partition = parsed.Partition
		rec.Service = parsed.Service
		rec.Region = parsed.Region
		rec.AccountID = parsed.AccountID
		rec.Resource = parsed.Resource
	}

	rec.ResourceType, rec.ResourceID = splitResource(rec.Resource)
	rec.FriendlyType = FriendlyType(rec.Service, rec.Resource)
	return rec
}

func splitResource(resource string) (string, string) {
	if i := strings.Index(resource, "/"); i >= 0 {
		return resource[:i], resource[i+1:]
	}
	if i := strings.Index(resource, ":"); i >= 0 {
		return resource[:i], resource[i+1:]
	}
	return resource, ""
}

// FriendlyType returns a human readable name for a service resource.
// ELBv2 resources carry their flavor in the second path segment
// (loadbalancer/app/...), so the lookup is by prefix, not by type alone.
func FriendlyType(service, resource string) string {
	resource = strings.TrimPrefix(resource, "/")
	best := ""
	bestLen := -1
	for _, e := range friendlyTypes[service] {
		if hasSegmentPrefix(resource, e.prefix) && len(e.prefix) > bestLen {
			best, bestLen = e.name, len(e.prefix)
		}
	}
	if best != "" {
		return best
	}

	resourceType, _ := splitResource(resource)
	return titleCase(strings.ReplaceAll(resourceType, "-", " "))
}

func hasSegmentPrefix(resource, prefix string) bool {
	if !strings.HasPrefix(resource, prefix) {
		return false
	}
	if len(resource) == len(prefix) {
		return true
	}
	next := resource[len(prefix)]
	return next == '/' || next == ':'
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// LoadBalancerFriendlyType maps an ELBv2 load balancer type to its display name.
func LoadBalancerFriendlyType(lbType string) string {
	switch lbType {
	case "application":
		return "Application Load Balancer"
	case "network":
		return "Network Load Balancer"
	case "gateway":
		return "Gateway Load Balancer"
	default:
		return lbType
	}
}
