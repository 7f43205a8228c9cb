package model

import "time"

// ScreenshotRecord 截图元数据
type ScreenshotRecord struct {
	ID               uint      `gorm:"primaryKey"`
	Filename         string    `gorm:"column:filename;uniqueIndex;size:255"`
	OriginalFilename string    `gorm:"column:original_filename;size:255"`
	FilePath         string    `gorm:"column:file_path;size:512"`
	FileSize         int64     `gorm:"column:file_size"`
	MimeType         string    `gorm:"column:mime_type;size:64;default:image/png"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (ScreenshotRecord) TableName() string {
	return "screenshots"
}

// ShirtCatalogEntry 衣物目录
type ShirtCatalogEntry struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;size:255"`
	FileName    string    `gorm:"column:file_name;size:255"`
	Color       string    `gorm:"column:color;size:64"`
	Description string    `gorm:"column:description;type:text"`
	FilePath    string    `gorm:"column:file_path;size:512"`
	Width       int       `gorm:"column:width"`
	Height      int       `gorm:"column:height"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (ShirtCatalogEntry) TableName() string {
	return "shirt_catalog"
}

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// ProcessingJob 图像处理任务记录
type ProcessingJob struct {
	ID             uint       `gorm:"primaryKey"`
	RequestID      string     `gorm:"column:request_id;index;size:64"`
	InputFilename  string     `gorm:"column:input_filename;size:255"`
	OutputFilename string     `gorm:"column:output_filename;size:255"`
	ProcessingType string     `gorm:"column:processing_type;size:32"`
	Status         string     `gorm:"column:status;size:16;default:pending"`
	ProcessingTime float64    `gorm:"column:processing_time"`
	ErrorMessage   *string    `gorm:"column:error_message;type:text"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	CompletedAt    *time.Time `gorm:"column:completed_at"`
}

func (ProcessingJob) TableName() string {
	return "processing_jobs"
}
