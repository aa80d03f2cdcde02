package builder

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// layoutPresets maps a column layout token to relative column ratios.
var layoutPresets = map[string][]int{
	"1":           {1},
	"1-1":         {1, 1},
	"1-2":         {1, 2},
	"2-1":         {2, 1},
	"1-3":         {1, 3},
	"3-1":         {3, 1},
	"2-3":         {2, 3},
	"3-2":         {3, 2},
	"1-1-1":       {1, 1, 1},
	"1-2-1":       {1, 2, 1},
	"2-1-1":       {2, 1, 1},
	"1-1-2":       {1, 1, 2},
	"1-3-1":       {1, 3, 1},
	"1-1-1-1":     {1, 1, 1, 1},
	"1-1-1-1-1":   {1, 1, 1, 1, 1},
	"1-1-1-1-1-1": {1, 1, 1, 1, 1, 1},
}

// LayoutTokens returns the known layout tokens in column-count order.
func LayoutTokens() []string {
	tokens := make([]string, 0, len(layoutPresets))
	for token := range layoutPresets {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(layoutPresets[tokens[i]]) != len(layoutPresets[tokens[j]]) {
			return len(layoutPresets[tokens[i]]) < len(layoutPresets[tokens[j]])
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}

// LayoutWidths returns the column widths for a layout token.
func LayoutWidths(token string) ([]string, bool) {
	ratios, ok := layoutPresets[strings.TrimSpace(token)]
	if !ok {
		return nil, false
	}
	return distribute(ratios), true
}

// EvenWidths splits 100% across n columns.
func EvenWidths(n int) []string {
	if n <= 0 {
		return nil
	}
	ratios := make([]int, n)
	for i := range ratios {
		ratios[i] = 1
	}
	return distribute(ratios)
}

// distribute converts ratios to percentage strings with two decimals. The
// last column absorbs the rounding remainder so the widths add up to 100.
func distribute(ratios []int) []string {
	total := 0
	for _, r := range ratios {
		total += r
	}
	widths := make([]string, len(ratios))
	assigned := 0
	for i, r := range ratios {
		hundredths := 10000 - assigned
		if i < len(ratios)-1 {
			hundredths = int(math.Round(float64(r) * 10000 / float64(total)))
		}
		assigned += hundredths
		widths[i] = formatWidth(hundredths)
	}
	return widths
}

func formatWidth(hundredths int) string {
	return strconv.FormatFloat(float64(hundredths)/100, 'f', -1, 64) + "%"
}

// ParseWidth reads a percentage string such as "33.33%" or "50".
func ParseWidth(width string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(width), "%"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ApplyEvenWidths resets every column in the row to an even share.
func (r *Row) ApplyEvenWidths() {
	for i, width := range EvenWidths(len(r.Columns)) {
		r.Columns[i].Width = width
	}
}
