package recordings

import "time"

// Recording is one successfully uploaded call recording.
type Recording struct {
	ID          string
	TenantID    int
	Email       string
	FileName    string
	FilePath    string
	PhoneNumber string
	CallDate    string
	SizeBytes   int64
	ArchiveKey  string
	RecordedAt  time.Time
	UploadedAt  time.Time
}
