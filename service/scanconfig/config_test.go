package scanconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "profiles": ["prod", "staging"],
  "regions": {"common": ["us-east-1", "eu-west-1"]},
  "waf": {"filters": {"regions": ["us-east-1"]}},
  "alb": {
    "scan_options": {"parallel": false, "max_workers": 5, "mode": "full"},
    "filters": {"types": ["application"], "schemes": ["internet-facing"]}
  },
  "route53": {"filters": {"zone_names": ["example.com"]}}
}`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"prod", "staging"}, cfg.ProfileList())
	assert.Equal(t, []string{"us-east-1"}, cfg.RegionsFor(ServiceWAF))
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, cfg.RegionsFor(ServiceALB))

	alb := cfg.Service(ServiceALB)
	require.NotNil(t, alb.ScanOptions.Parallel)
	assert.False(t, *alb.ScanOptions.Parallel)
	assert.Equal(t, 5, alb.ScanOptions.MaxWorkers)
	assert.Equal(t, "full", alb.ScanOptions.Mode)
	assert.Equal(t, []string{"internet-facing"}, alb.Filters.Schemes)
	assert.Equal(t, []string{"example.com"}, cfg.Service(ServiceRoute53).Filters.ZoneNames)
	assert.Nil(t, cfg.Service(ServiceWAF).ScanOptions.Parallel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestNilConfigIsEmpty(t *testing.T) {
	var cfg *Config
	assert.Nil(t, cfg.RegionsFor(ServiceALB))
	assert.Nil(t, cfg.ProfileList())
	assert.Equal(t, ServiceConfig{}, cfg.Service(ServiceWAF))
}
