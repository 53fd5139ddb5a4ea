package route53

import (
	"strings"

	"github.com/thirukguru/aws-edge-audit/model"
)

// danglingPatterns are hostnames of services where a released resource name
// can be claimed by another account.
var danglingPatterns = []string{
	".s3.amazonaws.com",
	".s3-website",
	".cloudfront.net",
	".elasticbeanstalk.com",
	".herokuapp.com",
	".azurewebsites.net",
	".trafficmanager.net",
	".github.io",
	".netlify.app",
	".vercel.app",
}

// DanglingRecords lists CNAME values in scanned zones that are subdomain
// takeover candidates. Ownership of the target is not verified.
func DanglingRecords(zones []model.HostedZone) []DanglingRecord {
	var dangling []DanglingRecord

	for _, zone := range zones {
		for _, record := range zone.Records {
			if record.Type != "CNAME" {
				continue
			}
			for _, value := range record.Values() {
				if !isDanglingCandidate(value) {
					continue
				}
				dangling = append(dangling, DanglingRecord{
					HostedZoneName: zone.BasicInfo.Name,
					RecordName:     record.Name,
					RecordType:     record.Type,
					Value:          value,
					Severity:       model.SeverityHigh,
					Description:    "CNAME points to cloud resource - verify ownership to prevent subdomain takeover",
					Recommendation: "Verify the target resource exists and is under your control",
				})
			}
		}
	}

	return dangling
}

func isDanglingCandidate(value string) bool {
	value = strings.ToLower(value)
	for _, pattern := range danglingPatterns {
		if strings.Contains(value, pattern) {
			return true
		}
	}
	return false
}
