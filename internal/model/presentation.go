package model

import (
	"time"

	"gorm.io/datatypes"
)

// PresentationType 发表资料类型
type PresentationType string

const (
	PresentationSlide    PresentationType = "slide"
	PresentationDocument PresentationType = "document"
	PresentationImage    PresentationType = "image"
	PresentationOther    PresentationType = "other"
)

func (t PresentationType) Valid() bool {
	switch t {
	case PresentationSlide, PresentationDocument, PresentationImage, PresentationOther:
		return true
	}
	return false
}

// Presentation 发表资料
type Presentation struct {
	ID           string           `gorm:"column:id;primaryKey;type:varchar(36);comment:UUID主键" json:"id"`
	Title        string           `gorm:"column:title;type:varchar(256);not null;comment:标题" json:"title"`
	Description  *string          `gorm:"column:description;type:text;comment:说明" json:"description,omitempty"`
	Type         PresentationType `gorm:"column:type;type:varchar(16);not null;comment:slide/document/image/other" json:"type"`
	FileURL      string           `gorm:"column:file_url;type:varchar(512);not null;comment:文件URL" json:"fileUrl"`
	ThumbnailURL *string          `gorm:"column:thumbnail_url;type:varchar(512);comment:缩略图URL" json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime;comment:创建时间" json:"createdAt"`
	UpdatedAt    *time.Time       `gorm:"column:updated_at;comment:更新时间" json:"updatedAt,omitempty"`
}

func (Presentation) TableName() string { return "presentations" }

// Photo 相册照片
type Photo struct {
	ID         string    `gorm:"column:id;primaryKey;type:varchar(36);comment:UUID主键" json:"id"`
	Title      *string   `gorm:"column:title;type:varchar(256);comment:标题" json:"title"`
	URL        string    `gorm:"column:url;type:varchar(512);not null;comment:对外URL" json:"url"`
	StorageKey string    `gorm:"column:storage_key;type:varchar(512);not null;uniqueIndex;comment:存储键" json:"storageKey"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index;comment:创建时间" json:"createdAt"`
}

func (Photo) TableName() string { return "photos" }

// ImportRowError CSV 单行错误
type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportBatch CSV 批量导入记录
type ImportBatch struct {
	ID        string         `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	FileName  string         `gorm:"column:file_name;type:varchar(256);not null" json:"fileName"`
	Total     int            `gorm:"column:total;not null;default:0" json:"total"`
	Succeeded int            `gorm:"column:succeeded;not null;default:0" json:"succeeded"`
	Failed    int            `gorm:"column:failed;not null;default:0" json:"failed"`
	Errors    datatypes.JSON `gorm:"column:errors;comment:失败行明细" json:"errors"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (ImportBatch) TableName() string { return "import_batches" }
