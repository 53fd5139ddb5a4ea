package correlator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thirukguru/aws-edge-audit/model"
)

var (
	// ErrMissingInput is returned when a scan document does not exist.
	ErrMissingInput = errors.New("missing input file")
	// ErrMalformedInput is returned when a scan document is not valid JSON.
	ErrMalformedInput = errors.New("malformed input file")
)

// Scan document prefixes used for timestamped and latest output files.
const (
	PrefixWAF     = "waf_config"
	PrefixALB     = "alb_config"
	PrefixRoute53 = "route53_config"
)

// Documents are the three scan documents the correlator reads.
type Documents struct {
	WAF     []model.WAFAccountScan
	ALB     []model.ALBAccountScan
	Route53 []model.Route53AccountScan
}

// LatestPath returns the path of the latest document for prefix in dir.
func LatestPath(dir, prefix string) string {
	return filepath.Join(dir, prefix+"_latest.json")
}

// LatestPaths returns the latest WAF, ALB and Route53 document paths in dir.
func LatestPaths(dir string) (waf, alb, route53 string) {
	return LatestPath(dir, PrefixWAF), LatestPath(dir, PrefixALB), LatestPath(dir, PrefixRoute53)
}

// Load reads the three scan documents. Any missing or malformed file is fatal.
func Load(wafPath, albPath, route53Path string) (*Documents, error) {
	docs := &Documents{}
	if err := ReadDocument(wafPath, &docs.WAF); err != nil {
		return nil, err
	}
	if err := ReadDocument(albPath, &docs.ALB); err != nil {
		return nil, err
	}
	if err := ReadDocument(route53Path, &docs.Route53); err != nil {
		return nil, err
	}
	return docs, nil
}

// ReadDocument decodes the JSON document at path into v.
func ReadDocument(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedInput, path, err)
	}
	return nil
}
