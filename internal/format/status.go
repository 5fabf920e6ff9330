package format

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/HealKnix/code-quality-reporter/internal/model"
)

var (
	goodColor    = color.New(color.FgGreen)
	mediumColor  = color.New(color.FgYellow)
	badColor     = color.New(color.FgRed)
	pendingColor = color.New(color.FgHiBlack)
)

// Status renders a review status with its conventional color. Unknown
// backend vocabularies pass through uncolored.
func Status(s model.ReviewStatus) string {
	switch s {
	case model.StatusGood:
		return goodColor.Sprint(string(s))
	case model.StatusMedium:
		return mediumColor.Sprint(string(s))
	case model.StatusBad:
		return badColor.Sprint(string(s))
	default:
		return string(s)
	}
}

// Rating renders a rating value, dimmed while the result is pending.
func Rating(r model.ReviewResult) string {
	if r.Pending {
		return pendingColor.Sprint("—")
	}
	return fmt.Sprintf("%.1f", r.Rating)
}

// MergeCount renders a merge count, dimming zero.
func MergeCount(n int) string {
	if n == 0 {
		return pendingColor.Sprint("0")
	}
	return fmt.Sprintf("%d", n)
}
