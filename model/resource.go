package model

// ResourceRecord is a parsed AWS resource ARN with its inferred friendly type.
type ResourceRecord struct {
	ARN             string `json:"arn"`
	Partition       string `json:"partition"`
	Service         string `json:"service"`
	Region          string `json:"region"`
	AccountID       string `json:"account_id"`
	Resource        string `json:"resource"`
	ResourceType    string `json:"resource_type"`
	ResourceID      string `json:"resource_id"`
	FriendlyType    string `json:"friendly_type"`
	ResourceTypeAPI string `json:"resource_type_api,omitempty"`
	Error           string `json:"error,omitempty"`
}

// AccountInfo identifies the caller behind a profile.
type AccountInfo struct {
	AccountID string `json:"account_id,omitempty"`
	ARN       string `json:"arn,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ScanError records an account/region/service slot that could not be scanned.
type ScanError struct {
	Region  string `json:"region,omitempty"`
	Service string `json:"service"`
	Error   string `json:"error"`
}

// ScanEnvelope is the per-profile header shared by every scan document.
type ScanEnvelope struct {
	Profile     string      `json:"profile"`
	ScanTime    string      `json:"scan_time"`
	AccountInfo AccountInfo `json:"account_info"`
	Errors      []ScanError `json:"errors,omitempty"`
}

// AccountIDOrUnknown returns the account id, or "unknown" when STS failed.
func (e ScanEnvelope) AccountIDOrUnknown() string {
	if e.AccountInfo.AccountID == "" {
		return "unknown"
	}
	return e.AccountInfo.AccountID
}
