package dto

type UploadActivityBucket struct {
	Day     string `json:"day"`
	Uploads int    `json:"uploads"`
}

type DashboardResponse struct {
	TotalDocuments  int64                  `json:"total_documents"`
	TotalSessions   int64                  `json:"total_sessions"`
	ProcessedCount  int64                  `json:"processed_count"`
	ProcessingCount int64                  `json:"processing_count"`
	UploadActivity  []UploadActivityBucket `json:"upload_activity"`
}
