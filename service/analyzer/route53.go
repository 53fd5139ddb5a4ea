package analyzer

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/correlator"
	"github.com/thirukguru/aws-edge-audit/service/route53"
)

// healthCheckedPolicies should always be backed by a health check.
var healthCheckedPolicies = []string{
	model.RoutingFailover,
	model.RoutingWeighted,
	model.RoutingLatency,
	model.RoutingMultivalue,
}

// LoadRoute53 reads a Route53 scan document.
func LoadRoute53(path string) ([]model.Route53AccountScan, error) {
	var doc []model.Route53AccountScan
	if err := correlator.ReadDocument(path, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Zones flattens every hosted zone of the document.
func Zones(doc []model.Route53AccountScan) []ZoneRow {
	var rows []ZoneRow
	for _, account := range doc {
		accountID := account.AccountIDOrUnknown()
		for _, zone := range account.HostedZones {
			rows = append(rows, ZoneRow{AccountID: accountID, Profile: account.Profile, Zone: zone})
		}
	}
	return rows
}

// Records flattens every record of the zones.
func Records(zones []ZoneRow) []RecordRow {
	var rows []RecordRow
	for _, z := range zones {
		for _, rec := range z.Zone.Records {
			rows = append(rows, RecordRow{AccountID: z.AccountID, Profile: z.Profile, ZoneName: z.Zone.BasicInfo.Name, Record: rec})
		}
	}
	return rows
}

// ByRecordType sums the per-zone record type summaries.
func ByRecordType(zones []ZoneRow) []Count {
	types := map[string]int{}
	for _, z := range zones {
		for t, n := range z.Zone.RecordTypeSummary {
			types[t] += n
		}
	}
	return sortedCounts(types)
}

// ByZoneType splits zones and record counts into public and private.
func ByZoneType(zones []ZoneRow) ZoneTypeStats {
	var stats ZoneTypeStats
	for _, z := range zones {
		if z.Zone.BasicInfo.Config.PrivateZone {
			stats.PrivateZones++
			stats.PrivateRecords += z.RecordCount()
		} else {
			stats.PublicZones++
			stats.PublicRecords += z.RecordCount()
		}
	}
	return stats
}

// RoutingPolicies counts records by routing policy.
func RoutingPolicies(zones []ZoneRow) []Count {
	policies := map[string]int{}
	for _, r := range Records(zones) {
		policies[r.RoutingType()]++
	}
	return sortedCounts(policies)
}

// MissingHealthChecks returns failover, weighted, latency and multivalue
// records without a health check.
func MissingHealthChecks(zones []ZoneRow) []RecordRow {
	var out []RecordRow
	for _, r := range Records(zones) {
		if r.Record.HealthCheckId == "" && slices.Contains(healthCheckedPolicies, r.RoutingType()) {
			out = append(out, r)
		}
	}
	return out
}

// Dangling returns the subdomain takeover candidates of every account.
func Dangling(doc []model.Route53AccountScan) []DanglingRow {
	var out []DanglingRow
	for _, account := range doc {
		for _, d := range route53.DanglingRecords(account.HostedZones) {
			out = append(out, DanglingRow{AccountID: account.AccountIDOrUnknown(), Profile: account.Profile, DanglingRecord: d})
		}
	}
	return out
}

// SearchRoute53 matches pattern against zone names and record names.
func SearchRoute53(zones []ZoneRow, pattern string) ([]ZoneRow, []RecordRow) {
	pattern = strings.ToLower(pattern)
	var matchedZones []ZoneRow
	var matchedRecords []RecordRow

	for _, z := range zones {
		if strings.Contains(strings.ToLower(z.Zone.BasicInfo.Name), pattern) {
			matchedZones = append(matchedZones, z)
		}
	}
	for _, r := range Records(zones) {
		if strings.Contains(strings.ToLower(r.Record.Name), pattern) {
			matchedRecords = append(matchedRecords, r)
		}
	}
	return matchedZones, matchedRecords
}

// SearchRecordValue matches pattern against record values and alias targets.
func SearchRecordValue(zones []ZoneRow, pattern string) []ValueMatch {
	pattern = strings.ToLower(pattern)
	var out []ValueMatch

	for _, r := range Records(zones) {
		for _, v := range r.Record.Values() {
			if strings.Contains(strings.ToLower(v), pattern) {
				out = append(out, ValueMatch{RecordRow: r, Value: v})
			}
		}
		if alias := r.Record.AliasTarget; alias != nil && strings.Contains(strings.ToLower(alias.DNSName), pattern) {
			out = append(out, ValueMatch{RecordRow: r, Value: alias.DNSName, Alias: true})
		}
	}
	return out
}

// WriteRoute53CSV writes one row per record value, or one row per alias record.
func WriteRoute53CSV(w io.Writer, zones []ZoneRow) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Account_ID", "Profile", "Zone_Name", "Zone_Type",
		"Record_Name", "Record_Type", "TTL",
		"Value", "Alias_Target", "Alias_Target_Type",
		"Routing_Policy", "Routing_Details",
		"Health_Check_ID", "Set_Identifier",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, z := range zones {
		for _, rec := range z.Zone.Records {
			details := ""
			if len(rec.RoutingPolicy.Details) > 0 {
				b, err := json.Marshal(rec.RoutingPolicy.Details)
				if err != nil {
					return err
				}
				details = string(b)
			}
			ttl := ""
			if rec.TTL != nil {
				ttl = strconv.FormatInt(*rec.TTL, 10)
			}
			policy := rec.RoutingPolicy.Type
			if policy == "" {
				policy = model.RoutingSimple
			}
			base := []string{z.AccountID, z.Profile, z.Zone.BasicInfo.Name, z.ZoneType(), rec.Name, rec.Type}
			tail := []string{policy, details, rec.HealthCheckId, rec.SetIdentifier}

			switch {
			case len(rec.ResourceRecords) > 0:
				for _, v := range rec.Values() {
					row := append(slices.Clone(base), ttl, v, "", "")
					if err := cw.Write(append(row, tail...)); err != nil {
						return err
					}
				}
			case rec.AliasTarget != nil:
				targetType := rec.AliasTarget.TargetType
				if targetType == "" {
					targetType = "Unknown"
				}
				row := append(slices.Clone(base), "", "", rec.AliasTarget.DNSName, targetType)
				if err := cw.Write(append(row, tail...)); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
