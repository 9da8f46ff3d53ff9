package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evermore-events/weddingops/internal/billing"
)

type StatementPDF interface {
	Generate(st billing.Statement) ([]byte, error)
}

type LedgerExcel interface {
	Generate(st billing.Statement) ([]byte, error)
}

// StatementService renders financial documents from the same derived state
// the settlement endpoints report.
type StatementService struct {
	billing *BillingService
	store   ContractStore
	pdf     StatementPDF
	excel   LedgerExcel
}

func NewStatementService(billingSvc *BillingService, store ContractStore, pdf StatementPDF, excel LedgerExcel) *StatementService {
	return &StatementService{
		billing: billingSvc,
		store:   store,
		pdf:     pdf,
		excel:   excel,
	}
}

type DocumentResult struct {
	FileName string
	Content  []byte
}

func (s *StatementService) statement(ctx context.Context, contractID uuid.UUID) (billing.Statement, error) {
	c, err := s.store.Load(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.Statement{}, fmt.Errorf("%w: contract %s", ErrNotFound, contractID)
		}
		return billing.Statement{}, err
	}
	totals := billing.Compute(billing.QuoteFor(c, s.billing.taxRateFor(ctx, c.LocationID)))
	return billing.Statement{
		Contract:    *c,
		Totals:      totals,
		Settlement:  billing.Reconcile(totals.Total, c.Schedule, c.Payments),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (s *StatementService) StatementPDF(ctx context.Context, contractID uuid.UUID) (*DocumentResult, error) {
	st, err := s.statement(ctx, contractID)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(st)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{
		FileName: buildFileName("statement", st, "pdf"),
		Content:  content,
	}, nil
}

func (s *StatementService) LedgerExcel(ctx context.Context, contractID uuid.UUID) (*DocumentResult, error) {
	st, err := s.statement(ctx, contractID)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(st)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{
		FileName: buildFileName("ledger", st, "xlsx"),
		Content:  content,
	}, nil
}

func buildFileName(kind string, st billing.Statement, ext string) string {
	client := sanitizeFileName(st.Contract.ClientName)
	if client == "" {
		client = st.Contract.ID.String()
	}
	return fmt.Sprintf("%s-%s-%s.%s", kind, client, st.Contract.EventDate.Format("20060102"), ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
