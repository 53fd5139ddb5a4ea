package elb

import (
	"fmt"
	"slices"

	"github.com/thirukguru/aws-edge-audit/model"
)

var outdatedTLSPolicies = []string{
	"ELBSecurityPolicy-2016-08",
	"ELBSecurityPolicy-TLS-1-0-2015-04",
	"ELBSecurityPolicy-TLS-1-1-2017-01",
	"ELBSecurityPolicy-2015-05",
}

// ListenerRisks checks the listeners recorded by a standard or full scan.
// Quick scans carry no listeners and yield no risks.
func ListenerRisks(lb model.LoadBalancer) []ListenerRisk {
	var risks []ListenerRisk
	hasHTTP, hasHTTPS := false, false

	for _, l := range lb.Listeners {
		switch l.Protocol {
		case "HTTPS":
			hasHTTPS = true
			if isOutdatedTLSPolicy(l.SslPolicy) {
				risks = append(risks, ListenerRisk{
					LoadBalancerName: lb.BasicInfo.LoadBalancerName,
					ListenerARN:      l.ListenerArn,
					Protocol:         l.Protocol,
					Port:             l.Port,
					Severity:         SeverityHigh,
					Description:      fmt.Sprintf("Outdated TLS policy: %s", l.SslPolicy),
					Recommendation:   "Use TLS 1.2+ policy (ELBSecurityPolicy-TLS13-1-2-2021-06 or newer)",
				})
			}
		case "HTTP":
			hasHTTP = true
		}
	}

	if lb.BasicInfo.Scheme == model.SchemeInternetFacing && hasHTTP && !hasHTTPS {
		risks = append(risks, ListenerRisk{
			LoadBalancerName: lb.BasicInfo.LoadBalancerName,
			Protocol:         "HTTP",
			Severity:         SeverityCritical,
			Description:      "Internet-facing ALB with HTTP only - no TLS encryption",
			Recommendation:   "Configure HTTPS listener with valid certificate",
		})
	}

	return risks
}

func isOutdatedTLSPolicy(policy string) bool {
	return slices.Contains(outdatedTLSPolicies, policy)
}
