package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"spendwatch/middleware"
	"spendwatch/models"
	"spendwatch/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	db       *gorm.DB
	progress *service.ProgressView
	loc      *time.Location
	now      func() time.Time
}

// NewExportHandler 创建导出处理器
func NewExportHandler(db *gorm.DB, store service.Store, loc *time.Location) *ExportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ExportHandler{
		db:       db,
		progress: service.NewProgressView(store, loc),
		loc:      loc,
		now:      time.Now,
	}
}

// queryRange 查询日期区间内的收支记录
func (h *ExportHandler) queryRange(ctx context.Context, userID uint, start, end time.Time) ([]models.Transaction, error) {
	var list []models.Transaction
	err := h.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC, id DESC").
		Find(&list).Error
	return list, err
}

// ExportCSV 导出收支记录为 CSV
// @Summary 导出收支记录
// @Description 根据日期范围导出收支记录为 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2024-01-01)"
// @Param end_date query string true "结束日期 (2024-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	start, end, ok := dateRangeQuery(c, h.loc, true)
	if !ok {
		return
	}

	transactions, err := h.queryRange(c.Request.Context(), userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(buf)

	headers := []string{"ID", "金额", "类别", "描述", "日期", "创建时间"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}
	for _, t := range transactions {
		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.Amount.StringFixed(2),
			t.Category,
			t.Description,
			t.Date.Format(DateLayout),
			t.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv", c.Query("start_date"), c.Query("end_date"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 导出收支记录为 JSON
// @Summary 导出收支记录为 JSON
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2024-01-01)"
// @Param end_date query string true "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=[]models.Transaction} "导出成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	start, end, ok := dateRangeQuery(c, h.loc, true)
	if !ok {
		return
	}

	transactions, err := h.queryRange(c.Request.Context(), userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
	}

	Success(c, gin.H{
		"start_date":   c.Query("start_date"),
		"end_date":     c.Query("end_date"),
		"total_count":  len(transactions),
		"total_amount": total,
		"transactions": transactions,
	})
}

// ExportExcel 导出收支记录与本月预算进度为 Excel
// @Summary 导出 Excel
// @Description 第一个工作表为日期范围内的收支记录，第二个工作表为当前月份的预算进度
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2024-01-01)"
// @Param end_date query string true "结束日期 (2024-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	start, end, ok := dateRangeQuery(c, h.loc, true)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	transactions, err := h.queryRange(ctx, userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}
	now := h.now().In(h.loc)
	progress, err := h.progress.Progress(ctx, userID, int(now.Month()), now.Year())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算预算进度失败"))
		return
	}

	f, err := buildWorkbook(transactions, progress)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成 Excel 失败"))
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("收支记录_%s_%s.xlsx", c.Query("start_date"), c.Query("end_date"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}

const (
	transactionSheet = "收支记录"
	progressSheet    = "预算进度"
)

var cellBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

type sheetStyles struct {
	header, data, summary int
	status                map[string]int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: center,
		Border:    cellBorder,
	}); err != nil {
		return s, err
	}
	if s.data, err = f.NewStyle(&excelize.Style{Alignment: center, Border: cellBorder}); err != nil {
		return s, err
	}
	if s.summary, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: center,
		Border:    cellBorder,
	}); err != nil {
		return s, err
	}

	s.status = make(map[string]int)
	for status, color := range map[string]string{
		service.StatusOK:      "C6EFCE",
		service.StatusWarning: "FFEB9C",
		service.StatusDanger:  "FFC7CE",
	} {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: center,
			Border:    cellBorder,
		})
		if err != nil {
			return s, err
		}
		s.status[status] = id
	}
	return s, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

// buildWorkbook 生成收支记录与预算进度两个工作表
func buildWorkbook(transactions []models.Transaction, progress []service.BudgetProgress) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", transactionSheet); err != nil {
		f.Close()
		return nil, err
	}
	styles, err := newSheetStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := writeTransactionSheet(f, styles, transactions); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeProgressSheet(f, styles, progress); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeTransactionSheet(f *excelize.File, styles sheetStyles, transactions []models.Transaction) error {
	sheet := transactionSheet
	for col, width := range map[string]float64{"A": 10, "B": 15, "C": 16, "D": 30, "E": 14, "F": 20} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	if err := writeHeader(f, sheet, []string{"ID", "金额", "类别", "描述", "日期", "创建时间"}, styles.header); err != nil {
		return err
	}

	total := decimal.Zero
	for i, t := range transactions {
		row := i + 2
		values := []interface{}{
			t.ID,
			t.Amount.InexactFloat64(),
			t.Category,
			t.Description,
			t.Date.Format(DateLayout),
			t.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), styles.data); err != nil {
			return err
		}
		total = total.Add(t.Amount)
	}

	// 汇总行
	summaryRow := len(transactions) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "合计")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), total.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(transactions)))
	if err := f.MergeCell(sheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("F%d", summaryRow)); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), styles.summary)
}

func writeProgressSheet(f *excelize.File, styles sheetStyles, progress []service.BudgetProgress) error {
	sheet := progressSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for col, width := range map[string]float64{"A": 16, "B": 14, "C": 14, "D": 12, "E": 14, "F": 10} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	if err := writeHeader(f, sheet, []string{"类别", "预算", "已花费", "百分比", "剩余", "状态"}, styles.header); err != nil {
		return err
	}

	for i, p := range progress {
		row := i + 2
		values := []interface{}{
			p.Budget.Category,
			p.Budget.Amount.InexactFloat64(),
			p.Spending.InexactFloat64(),
			fmt.Sprintf("%d%%", p.Percentage),
			p.Remaining.InexactFloat64(),
			p.Status,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), styles.status[p.Status]); err != nil {
			return err
		}
	}
	return nil
}
