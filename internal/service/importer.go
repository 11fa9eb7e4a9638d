package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"CivicPortal/internal/interfaces"
	"CivicPortal/internal/model"
	"CivicPortal/internal/monitoring"
	"CivicPortal/internal/repository"

	"github.com/sirupsen/logrus"
)

var csvHeader = []string{"title", "description", "date", "category", "area"}

// 本地时间格式按参考时区解释
var csvDateLayouts = []string{"2006-01-02 15:04", "2006/01/02 15:04", "2006-01-02", "2006/01/02"}

// CSVImporter 管理后台 CSV 批量导入
type CSVImporter struct {
	store  interfaces.EventStore
	repo   *repository.ImportRepository
	loc    *time.Location
	logger *logrus.Logger
}

func NewCSVImporter(store interfaces.EventStore, repo *repository.ImportRepository, loc *time.Location, logger *logrus.Logger) *CSVImporter {
	return &CSVImporter{store: store, repo: repo, loc: loc, logger: logger}
}

// Import 逐行调用 CreateEvent；单行失败记录到批次中，不影响其他行
func (im *CSVImporter) Import(ctx context.Context, fileName string, r io.Reader) (*model.ImportBatch, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: 读取表头失败: %v", ErrInvalidEvent, err)
	}
	cols, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	batch := &model.ImportBatch{FileName: fileName}
	var rowErrors []model.ImportRowError
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			rowErrors = append(rowErrors, model.ImportRowError{Line: line, Message: err.Error()})
			batch.Total++
			continue
		}
		line, _ := reader.FieldPos(0)
		if isBlankRecord(record) {
			continue
		}
		batch.Total++
		if err := im.importRecord(ctx, record, cols); err != nil {
			rowErrors = append(rowErrors, model.ImportRowError{Line: line, Message: err.Error()})
			continue
		}
		batch.Succeeded++
	}
	batch.Failed = len(rowErrors)
	if rowErrors == nil {
		rowErrors = []model.ImportRowError{}
	}
	raw, err := json.Marshal(rowErrors)
	if err != nil {
		return nil, err
	}
	batch.Errors = raw

	monitoring.ObserveImport(batch.Succeeded, batch.Failed)
	if err := im.repo.Save(ctx, batch); err != nil {
		return nil, fmt.Errorf("保存导入记录失败: %w", err)
	}
	im.logger.WithFields(logrus.Fields{
		"file":      fileName,
		"total":     batch.Total,
		"succeeded": batch.Succeeded,
		"failed":    batch.Failed,
	}).Info("CSV导入完成")
	return batch, nil
}

func (im *CSVImporter) importRecord(ctx context.Context, record []string, cols map[string]int) error {
	field := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	date, err := ParseEventDate(field("date"), im.loc)
	if err != nil {
		return err
	}
	_, err = im.store.CreateEvent(ctx,
		field("title"),
		field("description"),
		date,
		model.Category(field("category")),
		model.Area(field("area")),
	)
	return err
}

// ParseEventDate 支持 RFC3339 以及参考时区下的 YYYY-MM-DD[ HH:MM]
func ParseEventDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: 日期不能为空", ErrInvalidEvent)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range csvDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: 无法解析日期 %q", ErrInvalidEvent, s)
}

func indexHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		// 去掉 Excel 导出的 BOM
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		cols[strings.ToLower(h)] = i
	}
	for _, name := range csvHeader {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: 缺少列 %s", ErrInvalidEvent, name)
		}
	}
	return cols, nil
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
