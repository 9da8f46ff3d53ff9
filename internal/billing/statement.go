package billing

import (
	"time"

	"github.com/evermore-events/weddingops/internal/model"
)

// Statement is the document model handed to the PDF and spreadsheet
// generators: the contract header plus the fully derived financial picture.
type Statement struct {
	Contract    model.Contract
	Totals      Totals
	Settlement  Settlement
	GeneratedAt time.Time
}
