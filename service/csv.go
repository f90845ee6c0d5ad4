package service

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"expensetracker/errs"
	"expensetracker/logger"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CSVHeader 导入导出共用的列
var CSVHeader = []string{"title", "amount", "category", "date", "tags", "note"}

const isoMillis = "2006-01-02T15:04:05.000Z"

// BuildCSV 生成导出内容
// note 始终用双引号包裹，内部的双引号替换为两个单引号，其余字段原样输出
func BuildCSV(expenses []models.Expense) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(CSVHeader, ","))
	for _, e := range expenses {
		date := ""
		if !e.Date.IsZero() {
			date = e.Date.UTC().Format(isoMillis)
		}
		b.WriteByte('\n')
		b.WriteString(e.Title)
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(e.Amount, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(e.Category)
		b.WriteByte(',')
		b.WriteString(date)
		b.WriteByte(',')
		b.WriteString(strings.Join(e.Tags, ";"))
		b.WriteString(`,"`)
		b.WriteString(strings.ReplaceAll(e.Note, `"`, "''"))
		b.WriteByte('"')
	}
	return []byte(b.String())
}

// ImportRowResult 单行导入结果，Row 从 1 开始（不含表头）
type ImportRowResult struct {
	Row       int    `json:"row"`
	ExpenseID string `json:"expenseId,omitempty"`
	Error     string `json:"error,omitempty"`
	Err       error  `json:"-"`
}

// ImportResult CSV 导入结果
type ImportResult struct {
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Rows    []ImportRowResult `json:"rows"`
}

// ExpenseIO CSV/XLSX 导入导出
type ExpenseIO struct {
	pipeline *Pipeline
	store    store.Store
}

func NewExpenseIO(p *Pipeline, st store.Store) *ExpenseIO {
	return &ExpenseIO{pipeline: p, store: st}
}

// Import 逐行调用写入流程，action 为 imported
// AbortOnError 时返回已处理的结果和 *errs.ImportRowFailure
func (s *ExpenseIO) Import(ctx context.Context, userID, data string, policy BatchPolicy) (*ImportResult, error) {
	if _, err := loadUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	rows, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Rows: []ImportRowResult{}}
	for i, row := range rows {
		item := ImportRowResult{Row: i + 1}
		res, err := s.importRow(ctx, userID, row)
		if err != nil {
			item.Err, item.Error = err, err.Error()
			result.Failed++
			result.Rows = append(result.Rows, item)
			if policy == AbortOnError {
				return result, &errs.ImportRowFailure{Row: item.Row, Err: err}
			}
			logger.Warn("import row failed", zap.Int("row", item.Row), zap.Error(err))
			continue
		}
		item.ExpenseID = res.Expense.ID
		result.Created++
		result.Rows = append(result.Rows, item)
	}
	return result, nil
}

func (s *ExpenseIO) importRow(ctx context.Context, userID string, row map[string]string) (*IngestResult, error) {
	in, err := rowToInput(userID, row)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Ingest(ctx, in, models.AuditImported)
}

// ParseCSV 按表头把每行映射为 列名->值
func ParseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errs.BadRequest("invalid csv header: " + err.Error())
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	var rows []map[string]string
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.BadRequest("invalid csv at line " + strconv.Itoa(line) + ": " + err.Error())
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func rowToInput(userID string, row map[string]string) (ExpenseInput, error) {
	in := ExpenseInput{
		Title:    row["title"],
		Category: row["category"],
		Note:     row["note"],
		UserID:   userID,
		Tags:     splitTags(row["tags"]),
	}

	amount, err := strconv.ParseFloat(row["amount"], 64)
	if err != nil || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return in, invalidAmount()
	}
	in.Amount = amount

	if raw := row["date"]; raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return in, invalidDate()
		}
		in.Date = NewDate(date)
	}
	return in, nil
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ";") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Export 导出用户全部消费记录，按日期倒序
func (s *ExpenseIO) Export(ctx context.Context, userID string) ([]byte, error) {
	expenses, err := s.userExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildCSV(expenses), nil
}

func (s *ExpenseIO) userExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	if _, err := loadUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, store.ExpenseFilter{UserID: userID})
	if err != nil {
		return nil, errors.Wrap(err, "list expenses for export")
	}
	return expenses, nil
}
