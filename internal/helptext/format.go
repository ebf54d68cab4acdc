package helptext

import (
	"math"
	"strconv"
	"strings"

	"github.com/ziadkadry99/techtree/internal/catalogue"
)

// FormatCost renders a cost record as " <amount><letter>" fragments in the
// fixed order Food, Wood, Gold, Stone. Absent resources are omitted.
//
//	FormatCost({Food: 60, Wood: 20}) == " 60F 20W"
func FormatCost(c *catalogue.Cost) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	for _, r := range []struct {
		amount *int
		letter string
	}{
		{c.Food, "F"},
		{c.Wood, "W"},
		{c.Gold, "G"},
		{c.Stone, "S"},
	} {
		if r.amount == nil {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(*r.amount))
		b.WriteString(r.letter)
	}
	return b.String()
}

// FormatNumber prints v in its shortest form: 150, 0.9, 1.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatSeconds rounds v to two decimal places and appends "s".
func FormatSeconds(v float64) string {
	return FormatNumber(math.Round(v*100)/100) + "s"
}
