package resourcearn

import (
	"strings"

	"github.com/thirukguru/aws-edge-audit/model"
)

// DNSMatch describes how two DNS names matched.
type DNSMatch int

const (
	NoMatch DNSMatch = iota
	ExactMatch
	NormalizedMatch
)

// NormalizeDNSName lower-cases a name, drops the root dot and the
// dualstack. prefix Route53 adds to ELB alias targets.
func NormalizeDNSName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, ".")
	return strings.TrimPrefix(n, "dualstack.")
}

// DNSNamesMatch compares a record target with a load balancer DNS name.
// A target may carry extra leading labels, but a target that is only a
// suffix of the load balancer name never matches.
func DNSNamesMatch(target, lbDNSName string) DNSMatch {
	if target == "" || lbDNSName == "" {
		return NoMatch
	}
	if target == lbDNSName {
		return ExactMatch
	}
	a, b := NormalizeDNSName(target), NormalizeDNSName(lbDNSName)
	if a == b {
		return NormalizedMatch
	}
	if strings.HasSuffix(a, "."+b) {
		return NormalizedMatch
	}
	return NoMatch
}

// InferAliasTargetType guesses the AWS service behind an alias DNS name.
func InferAliasTargetType(dnsName string) string {
	n := strings.ToLower(dnsName)
	switch {
	case strings.Contains(n, "elb.amazonaws.com"), strings.Contains(n, "elasticloadbalancing"):
		return model.TargetTypeELB
	case strings.Contains(n, "cloudfront.net"):
		return model.TargetTypeCloudFront
	case strings.Contains(n, "s3-website"):
		return model.TargetTypeS3Website
	case strings.Contains(n, "execute-api"):
		return model.TargetTypeAPIGateway
	case strings.Contains(n, "amplifyapp.com"):
		return model.TargetTypeAmplify
	case strings.Contains(n, "apprunner"):
		return model.TargetTypeAppRunner
	default:
		return model.TargetTypeUnknown
	}
}

// IsELBTarget reports whether an inferred alias target type is a load balancer.
func IsELBTarget(targetType string) bool {
	return strings.Contains(targetType, "ELB")
}
