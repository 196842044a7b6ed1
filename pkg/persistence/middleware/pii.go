package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/aretw0/adbpilot/pkg/ports"
)

// PhoneNumberPattern matches dialable numbers such as "+55 11 98888-7777".
const PhoneNumberPattern = `\+?\d[\d\s-]{6,}\d`

// Mask replaces every redacted match.
const Mask = "***"

type piiMiddleware struct {
	next     ports.RunStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks matches of the patterns in the
// free-form fields of every step result before the record is stored.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.RunStore) ports.RunStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, record *domain.RunRecord) error {
	// Copy the results so the caller's report is left untouched.
	cloned := *record
	cloned.Report.Results = make([]domain.StepResult, len(record.Report.Results))
	for i, res := range record.Report.Results {
		res.Output = m.mask(res.Output)
		res.Error = m.mask(res.Error)
		res.Reasoning = m.mask(res.Reasoning)
		cloned.Report.Results[i] = res
	}
	return m.next.Save(ctx, &cloned)
}

func (m *piiMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}

func (m *piiMiddleware) Load(ctx context.Context, runID string) (*domain.RunRecord, error) {
	return m.next.Load(ctx, runID)
}

func (m *piiMiddleware) Delete(ctx context.Context, runID string) error {
	return m.next.Delete(ctx, runID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
