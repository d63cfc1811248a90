/*
Package narrate attaches Arabic prose explanations to computed designs.

PURPOSE:
  The calculation layer produces numbers; installers want a paragraph
  they can hand to a customer. This package wraps a text generation
  backend behind a single narrow capability and guarantees a local,
  deterministic fallback built from the already-computed fields, so a
  numeric result always ships with some explanation text.

CONTRACT:
  - One attempt against the backend, no retry.
  - The narration never feeds back into the numeric result.
  - Narrate never returns an error to its caller: backend failure is
    logged and the templated fallback is substituted.

SEE ALSO:
  - gemini.go: The Gemini-backed Generator
*/
package narrate

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"
)

// Generator is the text generation backend. Implementations are
// expected to be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
}

// DesignContext is the flat record of input and computed fields a
// narration is built from.
type DesignContext struct {
	SystemSizeKw        float64
	PanelCount          int
	LimitingFactor      string
	TotalInvestmentJOD  float64
	AnnualRevenueJOD    float64
	PaybackMonths       float64
	NetProfit25YearsJOD float64
	Location            string
}

// Narrator produces narration text with a local fallback.
type Narrator struct {
	Gen     Generator
	Timeout time.Duration
}

// defaultTimeout bounds the single backend attempt.
const defaultTimeout = 20 * time.Second

const systemPrompt = "أنت مساعد هندسي لشركة طاقة شمسية في الأردن. " +
	"اشرح نتائج تصميم النظام الشمسي للعميل بلغة عربية واضحة ومختصرة، " +
	"دون تغيير أي رقم من الأرقام المعطاة."

// Narrate requests one narration from the backend and falls back to
// the deterministic template on any failure or missing backend.
func (n *Narrator) Narrate(ctx context.Context, c DesignContext) string {
	if n == nil || n.Gen == nil {
		return Fallback(c)
	}

	timeout := n.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"حجم النظام: %.2f كيلوواط، عدد الألواح: %d، العامل المحدد: %s، "+
			"التكلفة الإجمالية: %.2f دينار، الإيراد السنوي: %.2f دينار، "+
			"فترة الاسترداد: %s، صافي الربح خلال 25 سنة: %.2f دينار، الموقع: %s.",
		c.SystemSizeKw, c.PanelCount, c.LimitingFactor,
		c.TotalInvestmentJOD, c.AnnualRevenueJOD,
		paybackText(c.PaybackMonths), c.NetProfit25YearsJOD, c.Location,
	)

	text, err := n.Gen.Generate(ctx, prompt, systemPrompt)
	if err != nil || text == "" {
		log.Printf("narration failed, using fallback: %v", err)
		return Fallback(c)
	}
	return text
}

// Fallback builds the deterministic Arabic explanation from the
// computed fields.
func Fallback(c DesignContext) string {
	return fmt.Sprintf(
		"نوصي بنظام شمسي بقدرة %.2f كيلوواط مكوّن من %d لوحًا في %s. "+
			"التكلفة الإجمالية التقديرية %.2f دينار أردني، بإيراد سنوي متوقع %.2f دينار. "+
			"فترة استرداد رأس المال %s، وصافي الربح المتوقع خلال 25 سنة %.2f دينار.",
		c.SystemSizeKw, c.PanelCount, locationArabic(c.Location),
		c.TotalInvestmentJOD, c.AnnualRevenueJOD,
		paybackText(c.PaybackMonths), c.NetProfit25YearsJOD,
	)
}

// paybackText renders the payback sentinels the way the UI does.
func paybackText(months float64) string {
	if math.IsInf(months, 1) || months > 300 {
		return "أكثر من 25 سنة"
	}
	years := int(months) / 12
	rem := int(months) % 12
	if years == 0 {
		return fmt.Sprintf("%d أشهر", rem)
	}
	if rem == 0 {
		return fmt.Sprintf("%d سنوات", years)
	}
	return fmt.Sprintf("%d سنوات و%d أشهر", years, rem)
}

func locationArabic(location string) string {
	switch location {
	case "amman":
		return "عمّان"
	case "zarqa":
		return "الزرقاء"
	case "irbid":
		return "إربد"
	case "aqaba":
		return "العقبة"
	}
	return location
}
