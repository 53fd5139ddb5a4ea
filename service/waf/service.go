// Package waf fetches WAFv2 web ACLs together with the resources they protect.
package waf

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	"github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/thirukguru/aws-edge-audit/model"
	awscloudfront "github.com/thirukguru/aws-edge-audit/service/cloudfront"
	"github.com/thirukguru/aws-edge-audit/service/resourcearn"
)

// ResourceTypeCloudFront tags distributions found through CloudFront rather than WAFv2.
const ResourceTypeCloudFront = "CLOUDFRONT"

// regionalResourceTypes are queried with ListResourcesForWebACL, ALB first.
var regionalResourceTypes = []types.ResourceType{
	types.ResourceType(model.ResourceTypeALB),
	types.ResourceType("API_GATEWAY"),
	types.ResourceType("APPSYNC"),
	types.ResourceType("APP_RUNNER_SERVICE"),
	types.ResourceType("COGNITO_USER_POOL"),
	types.ResourceType("VERIFIED_ACCESS_INSTANCE"),
}

// NewService creates a new WAF service. CloudFront-scoped ACLs must be listed
// with a us-east-1 config.
func NewService(cfg aws.Config) Service {
	return &service{
		client:        wafv2.NewFromConfig(cfg),
		distributions: awscloudfront.NewService(cfg),
	}
}

func newWithClients(client WAFClientAPI, distributions DistributionLister) Service {
	return &service{client: client, distributions: distributions}
}

// ListWebACLs returns every web ACL in scope with its detail and associated
// resources. Per-ACL detail failures are recorded on the ACL and do not fail the call.
func (s *service) ListWebACLs(ctx context.Context, scope string) ([]model.WebACL, error) {
	summaries, err := s.listSummaries(ctx, types.Scope(scope))
	if err != nil {
		return nil, err
	}

	acls := make([]model.WebACL, 0, len(summaries))
	for _, summary := range summaries {
		acl := model.WebACL{
			Summary: model.WebACLSummary{
				Name:        aws.ToString(summary.Name),
				Id:          aws.ToString(summary.Id),
				ARN:         aws.ToString(summary.ARN),
				Description: aws.ToString(summary.Description),
				LockToken:   aws.ToString(summary.LockToken),
			},
			AssociatedResources: []model.ResourceRecord{},
		}

		out, err := s.client.GetWebACL(ctx, &wafv2.GetWebACLInput{
			Id:    summary.Id,
			Name:  summary.Name,
			Scope: types.Scope(scope),
		})
		if err != nil {
			acl.Error = err.Error()
			acls = append(acls, acl)
			continue
		}
		if out.WebACL != nil {
			acl.Detail = convertWebACL(out.WebACL)
		}

		acl.AssociatedResources = s.associatedResources(ctx, scope, acl.Summary.ARN)
		acls = append(acls, acl)
	}

	return acls, nil
}

func (s *service) listSummaries(ctx context.Context, scope types.Scope) ([]types.WebACLSummary, error) {
	var summaries []types.WebACLSummary
	input := &wafv2.ListWebACLsInput{Scope: scope, Limit: aws.Int32(100)}

	// WAFv2 ships no paginator for ListWebACLs.
	for {
		out, err := s.client.ListWebACLs(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list %s web ACLs: %w", scope, err)
		}
		summaries = append(summaries, out.WebACLs...)
		if aws.ToString(out.NextMarker) == "" {
			return summaries, nil
		}
		input.NextMarker = out.NextMarker
	}
}

func (s *service) associatedResources(ctx context.Context, scope, aclARN string) []model.ResourceRecord {
	records := []model.ResourceRecord{}

	if scope == model.ScopeCloudFront {
		if s.distributions == nil {
			return records
		}
		arns, err := s.distributions.ListDistributionARNsByWebACL(ctx, aclARN)
		if err != nil {
			return records
		}
		for _, arn := range arns {
			rec := resourcearn.Parse(arn)
			rec.ResourceTypeAPI = ResourceTypeCloudFront
			records = append(records, rec)
		}
		return records
	}

	for _, resourceType := range regionalResourceTypes {
		out, err := s.client.ListResourcesForWebACL(ctx, &wafv2.ListResourcesForWebACLInput{
			WebACLArn:    aws.String(aclARN),
			ResourceType: resourceType,
		})
		if err != nil {
			// Not every region supports every resource type.
			continue
		}
		for _, arn := range out.ResourceArns {
			rec := resourcearn.Parse(arn)
			rec.ResourceTypeAPI = string(resourceType)
			records = append(records, rec)
		}
	}
	return records
}

func convertWebACL(acl *types.WebACL) *model.WebACLDetail {
	detail := &model.WebACLDetail{
		Name:                     aws.ToString(acl.Name),
		Id:                       aws.ToString(acl.Id),
		ARN:                      aws.ToString(acl.ARN),
		Description:              aws.ToString(acl.Description),
		Capacity:                 acl.Capacity,
		DefaultAction:            defaultActionName(acl.DefaultAction),
		ManagedByFirewallManager: acl.ManagedByFirewallManager,
		LabelNamespace:           aws.ToString(acl.LabelNamespace),
		Rules:                    make([]model.WAFRule, 0, len(acl.Rules)),
	}
	for _, r := range acl.Rules {
		detail.Rules = append(detail.Rules, convertRule(r))
	}
	return detail
}

func convertRule(r types.Rule) model.WAFRule {
	rule := model.WAFRule{
		Name:           aws.ToString(r.Name),
		Priority:       r.Priority,
		Action:         ruleActionName(r.Action),
		OverrideAction: overrideActionName(r.OverrideAction),
		StatementType:  StatementType(r.Statement),
	}
	if r.Statement != nil {
		if m := r.Statement.ManagedRuleGroupStatement; m != nil {
			rule.ManagedRuleGroup = &model.ManagedRuleGroup{
				VendorName: aws.ToString(m.VendorName),
				Name:       aws.ToString(m.Name),
			}
		}
		if raw, err := json.Marshal(r.Statement); err == nil {
			rule.Statement = raw
		}
	}
	return rule
}

// StatementType names the top-level statement kind of a rule.
func StatementType(st *types.Statement) string {
	switch {
	case st == nil:
		return ""
	case st.ManagedRuleGroupStatement != nil:
		return "ManagedRuleGroupStatement"
	case st.RateBasedStatement != nil:
		return "RateBasedStatement"
	case st.IPSetReferenceStatement != nil:
		return "IPSetReferenceStatement"
	case st.GeoMatchStatement != nil:
		return "GeoMatchStatement"
	case st.ByteMatchStatement != nil:
		return "ByteMatchStatement"
	case st.SizeConstraintStatement != nil:
		return "SizeConstraintStatement"
	case st.SqliMatchStatement != nil:
		return "SqliMatchStatement"
	case st.XssMatchStatement != nil:
		return "XssMatchStatement"
	case st.AndStatement != nil:
		return "AndStatement"
	case st.OrStatement != nil:
		return "OrStatement"
	case st.NotStatement != nil:
		return "NotStatement"
	case st.RuleGroupReferenceStatement != nil:
		return "RuleGroupReferenceStatement"
	case st.RegexPatternSetReferenceStatement != nil:
		return "RegexPatternSetReferenceStatement"
	case st.RegexMatchStatement != nil:
		return "RegexMatchStatement"
	case st.LabelMatchStatement != nil:
		return "LabelMatchStatement"
	default:
		return "Other"
	}
}

func ruleActionName(a *types.RuleAction) string {
	switch {
	case a == nil:
		return ""
	case a.Allow != nil:
		return "Allow"
	case a.Block != nil:
		return "Block"
	case a.Count != nil:
		return "Count"
	case a.Captcha != nil:
		return "Captcha"
	case a.Challenge != nil:
		return "Challenge"
	default:
		return ""
	}
}

func overrideActionName(a *types.OverrideAction) string {
	switch {
	case a == nil:
		return ""
	case a.Count != nil:
		return "Count"
	case a.None != nil:
		return "None"
	default:
		return ""
	}
}

func defaultActionName(a *types.DefaultAction) string {
	switch {
	case a == nil:
		return ""
	case a.Allow != nil:
		return "Allow"
	case a.Block != nil:
		return "Block"
	default:
		return ""
	}
}
