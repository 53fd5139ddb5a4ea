package analyzer

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/correlator"
)

// LoadWAF reads a WAF scan document.
func LoadWAF(path string) ([]model.WAFAccountScan, error) {
	var doc []model.WAFAccountScan
	if err := correlator.ReadDocument(path, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// WAFACLs flattens every CloudFront and regional web ACL of the document,
// CloudFront ACLs first within each region.
func WAFACLs(doc []model.WAFAccountScan) []WAFACL {
	var acls []WAFACL
	for _, account := range doc {
		accountID := account.AccountIDOrUnknown()
		for _, region := range account.Regions {
			for _, acl := range region.CloudFrontACLs {
				acls = append(acls, WAFACL{AccountID: accountID, Profile: account.Profile, Region: region.Region, Scope: model.ScopeCloudFront, ACL: acl})
			}
			for _, acl := range region.RegionalACLs {
				acls = append(acls, WAFACL{AccountID: accountID, Profile: account.Profile, Region: region.Region, Scope: model.ScopeRegional, ACL: acl})
			}
		}
	}
	return acls
}

// RuleTypeName maps a rule's top-level statement to its display category.
func RuleTypeName(rule model.WAFRule) string {
	switch rule.StatementType {
	case "ManagedRuleGroupStatement":
		if rule.ManagedRuleGroup != nil {
			return fmt.Sprintf("Managed: %s/%s", rule.ManagedRuleGroup.VendorName, rule.ManagedRuleGroup.Name)
		}
		return "Managed: unknown"
	case "RateBasedStatement":
		return "Rate-based"
	case "IPSetReferenceStatement":
		return "IP Set"
	case "GeoMatchStatement":
		return "Geo Match"
	case "ByteMatchStatement":
		return "Byte Match"
	case "SizeConstraintStatement":
		return "Size Constraint"
	case "SqliMatchStatement":
		return "SQLi Match"
	case "XssMatchStatement":
		return "XSS Match"
	case "AndStatement", "OrStatement", "NotStatement":
		return "AND/OR/NOT Logic"
	default:
		return "Other"
	}
}

// RuleActionName returns the rule action, or the override action of
// rule group references.
func RuleActionName(rule model.WAFRule) string {
	if rule.Action != "" {
		return rule.Action
	}
	if rule.OverrideAction != "" {
		return "Override: " + rule.OverrideAction
	}
	return "Unknown"
}

// RuleStats counts rule types over all ACLs. Actions only count rules that
// carry their own action.
func RuleStats(acls []WAFACL) WAFRuleStats {
	types := map[string]int{}
	actions := map[string]int{}
	total := 0

	for _, acl := range acls {
		for _, rule := range acl.ACL.Rules() {
			total++
			types[RuleTypeName(rule)]++
			if rule.Action != "" {
				actions[rule.Action]++
			}
		}
	}

	return WAFRuleStats{Types: sortedCounts(types), Actions: sortedCounts(actions), Total: total}
}

// ResourceStats counts the associated resources by friendly type.
func ResourceStats(acls []WAFACL) WAFResourceStats {
	types := map[string]int{}
	var stats WAFResourceStats

	for _, acl := range acls {
		resources := acl.ACL.AssociatedResources
		if len(resources) == 0 {
			stats.ACLsWithout++
			continue
		}
		stats.ACLsWithResource++
		stats.TotalResources += len(resources)
		for _, r := range resources {
			friendly := r.FriendlyType
			if friendly == "" {
				friendly = "Unknown"
			}
			types[friendly]++
		}
	}

	stats.Types = sortedCounts(types)
	return stats
}

// SearchWAF returns the ACLs whose name contains pattern, case-insensitively.
func SearchWAF(acls []WAFACL, pattern string) []WAFACL {
	pattern = strings.ToLower(pattern)
	var out []WAFACL
	for _, acl := range acls {
		if strings.Contains(strings.ToLower(acl.ACL.Name()), pattern) {
			out = append(out, acl)
		}
	}
	return out
}

// WriteWAFCSV writes one row per web ACL.
func WriteWAFCSV(w io.Writer, acls []WAFACL) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Account ID", "Region", "Scope", "ACL Name", "ACL ID", "Capacity", "Rule Count", "Associated Resources"}); err != nil {
		return err
	}
	for _, acl := range acls {
		row := []string{
			acl.AccountID,
			acl.Region,
			acl.Scope,
			acl.ACL.Summary.Name,
			acl.ACL.Summary.Id,
			strconv.FormatInt(acl.Capacity(), 10),
			strconv.Itoa(len(acl.ACL.Rules())),
			strconv.Itoa(len(acl.ACL.AssociatedResources)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// sortedCounts orders buckets by count descending, then key.
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

// percent returns part/total as a percentage rounded to one decimal.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
