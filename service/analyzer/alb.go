package analyzer

import (
	"cmp"
	"encoding/csv"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/correlator"
	"github.com/thirukguru/aws-edge-audit/service/elb"
)

// LoadALB reads an ALB scan document.
func LoadALB(path string) ([]model.ALBAccountScan, error) {
	var doc []model.ALBAccountScan
	if err := correlator.ReadDocument(path, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ALBs flattens every load balancer of the document.
func ALBs(doc []model.ALBAccountScan) []ALBRow {
	var rows []ALBRow
	for _, account := range doc {
		accountID := account.AccountIDOrUnknown()
		for _, region := range account.Regions {
			for _, lb := range region.LoadBalancers {
				rows = append(rows, ALBRow{AccountID: accountID, Profile: account.Profile, Region: region.Region, LB: lb})
			}
		}
	}
	return rows
}

// WAFCoverage returns the coverage per account, ordered by account, and the
// overall coverage.
func WAFCoverage(rows []ALBRow) ([]Coverage, Coverage) {
	byAccount := coverageBy(rows, func(r ALBRow) string { return r.AccountID })
	total := Coverage{Key: "total"}
	for _, c := range byAccount {
		total.Total += c.Total
		total.WithWAF += c.WithWAF
	}
	total.Rate = percent(total.WithWAF, total.Total)
	return byAccount, total
}

// CoverageByRegion returns the coverage per region, ordered by region.
func CoverageByRegion(rows []ALBRow) []Coverage {
	return coverageBy(rows, func(r ALBRow) string { return r.Region })
}

func coverageBy(rows []ALBRow, key func(ALBRow) string) []Coverage {
	index := map[string]int{}
	var out []Coverage
	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Coverage{Key: k})
		}
		out[i].Total++
		if r.LB.WAFAssociation.HasWAF {
			out[i].WithWAF++
		}
	}
	for i := range out {
		out[i].Rate = percent(out[i].WithWAF, out[i].Total)
	}
	slices.SortFunc(out, func(a, b Coverage) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// WithoutWAF returns the load balancers that have no associated web ACL.
func WithoutWAF(rows []ALBRow) []ALBRow {
	var out []ALBRow
	for _, r := range rows {
		if !r.LB.WAFAssociation.HasWAF {
			out = append(out, r)
		}
	}
	return out
}

// ByType counts load balancers by friendly type.
func ByType(rows []ALBRow) []Count {
	types := map[string]int{}
	for _, r := range rows {
		types[r.Type()]++
	}
	return sortedCounts(types)
}

// ListenerRisks runs the offline listener checks over every load balancer.
func ListenerRisks(rows []ALBRow) []elb.ListenerRisk {
	var out []elb.ListenerRisk
	for _, r := range rows {
		for _, risk := range elb.ListenerRisks(r.LB) {
			risk.AccountID = r.AccountID
			risk.Region = r.Region
			out = append(out, risk)
		}
	}
	return out
}

// SearchALB matches pattern against the name, DNS name and ARN.
func SearchALB(rows []ALBRow, pattern string) []ALBRow {
	pattern = strings.ToLower(pattern)
	var out []ALBRow
	for _, r := range rows {
		info := r.LB.BasicInfo
		for _, field := range []string{info.LoadBalancerName, info.DNSName, info.LoadBalancerArn} {
			if strings.Contains(strings.ToLower(field), pattern) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// WriteALBCSV writes one row per load balancer.
func WriteALBCSV(w io.Writer, rows []ALBRow) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Account_ID", "Profile", "Region", "ALB_Name", "Type",
		"State", "Scheme", "DNS_Name", "VPC_ID",
		"Has_WAF", "WAF_Name", "WAF_ID", "WAF_ARN",
		"Listener_Count", "TargetGroup_Count",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		info := r.LB.BasicInfo
		hasWAF := "No"
		var wafName, wafID, wafARN string
		if waf := r.LB.WAFAssociation; waf.HasWAF && waf.WebACL != nil {
			hasWAF = "Yes"
			wafName, wafID, wafARN = waf.WebACL.Name, waf.WebACL.Id, waf.WebACL.ARN
		}
		row := []string{
			r.AccountID, r.Profile, r.Region, info.LoadBalancerName, r.Type(),
			info.State, info.Scheme, info.DNSName, info.VpcId,
			hasWAF, wafName, wafID, wafARN,
			strconv.Itoa(len(r.LB.Listeners)), strconv.Itoa(len(r.LB.TargetGroups)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
