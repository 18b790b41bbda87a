package httpapi

type IngestStatus struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	Running   bool   `json:"running"`
	Source    string `json:"source,omitempty"` // empty means all sources
}
