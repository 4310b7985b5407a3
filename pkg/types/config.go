package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"23456"`
	Debug           bool   `envconfig:"DEBUG" default:"false"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"120"`
	MaxUploadMB     int64  `envconfig:"MAX_UPLOAD_MB" default:"10"`

	// Object storage (Tencent COS through its S3 API)
	StorageRegion        string `envconfig:"COS_REGION"`
	StorageBucket        string `envconfig:"COS_BUCKET"`
	StorageSecretID      string `envconfig:"COS_SECRET_ID"`
	StorageSecretKey     string `envconfig:"COS_SECRET_KEY"`
	StorageEndpoint      string `envconfig:"STORAGE_ENDPOINT"`        // defaults to https://cos.<region>.myqcloud.com
	StoragePublicBaseURL string `envconfig:"STORAGE_PUBLIC_BASE_URL"` // defaults to https://<bucket>.cos.<region>.myqcloud.com

	ExportConfig
}

// ExportConfig names the files inside an export bundle. The program name
// fills the second spreadsheet column for every row.
type ExportConfig struct {
	ProgramName     string `envconfig:"EXPORT_PROGRAM_NAME" default:"软件工程ISEC"`
	SheetTitle      string `envconfig:"EXPORT_SHEET_TITLE" default:"请假记录"`
	SpreadsheetName string `envconfig:"EXPORT_SPREADSHEET_NAME" default:"22级软件工程ISEC第五周请假汇总表.xlsx"`
	PhotosDir       string `envconfig:"EXPORT_PHOTOS_DIR" default:"22级软件工程ISEC第五周假条"`
	ArchiveName     string `envconfig:"EXPORT_ARCHIVE_NAME" default:"22级软件工程ISEC第五周假条.zip"`
	TempDir         string `envconfig:"EXPORT_TEMP_DIR"`
}
