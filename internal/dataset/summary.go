package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"review-insights-go/internal/config"
)

// Prompt size caps: sampled review count and per-review length.
const (
	maxSampleReviews  = 40
	maxCharsPerReview = 400
	topProductCount   = 10
)

// BuildSummary turns a table and its role mapping into the bounded Korean
// text block sent to the model: basic counts, rating statistics, sentiment
// buckets, age/gender/date distributions, top products and a ranked review
// sample. Sections for unmapped or entirely empty columns are omitted.
// Cells that fail numeric or date coercion are silently excluded from the
// statistic they would feed.
func BuildSummary(t *Table, m RoleMapping, th config.Thresholds) string {
	reviewCol := m[config.RoleReview]
	if t == nil || reviewCol == "" || !t.HasColumn(reviewCol) {
		return "리뷰 열이 없습니다."
	}

	var lines []string
	lines = append(lines, "=== 기본 통계 ===")
	lines = append(lines, fmt.Sprintf("총 리뷰 수: %d", t.Rows()))

	productCol := m[config.RoleProduct]
	if productCol != "" && t.HasColumn(productCol) {
		cells, _ := t.Column(productCol)
		distinct := make(map[string]bool)
		for _, c := range cells {
			if s := strings.TrimSpace(c); s != "" {
				distinct[s] = true
			}
		}
		lines = append(lines, fmt.Sprintf("리뷰된 제품(모델) 수: %d", len(distinct)))
	}

	// Numeric-rating subset: row order preserved, non-numeric cells dropped.
	var ratings []float64
	ratingAt := make(map[int]float64)
	if ratingCol := m[config.RoleRating]; ratingCol != "" && t.HasColumn(ratingCol) {
		cells, _ := t.Column(ratingCol)
		for i, c := range cells {
			if v, ok := parseNumber(c); ok {
				ratings = append(ratings, v)
				ratingAt[i] = v
			}
		}
	}

	if len(ratings) > 0 {
		lines = append(lines, ratingStats(ratings, th)...)
	}

	if ageCol := m[config.RoleAge]; ageCol != "" && t.HasColumn(ageCol) {
		cells, _ := t.Column(ageCol)
		lines = appendDistribution(lines, "연령대 분포", cells)
	}
	if genderCol := m[config.RoleGender]; genderCol != "" && t.HasColumn(genderCol) {
		cells, _ := t.Column(genderCol)
		lines = appendDistribution(lines, "성별 분포", cells)
	}
	if dateCol := m[config.RolePurchaseDate]; dateCol != "" && t.HasColumn(dateCol) {
		cells, _ := t.Column(dateCol)
		lines = appendDateDistribution(lines, cells)
	}
	if productCol != "" && t.HasColumn(productCol) {
		cells, _ := t.Column(productCol)
		lines = appendTopProducts(lines, cells)
	}

	lines = append(lines, reviewSample(t, reviewCol, ratingAt)...)
	return strings.Join(lines, "\n")
}

func ratingStats(ratings []float64, th config.Thresholds) []string {
	n := len(ratings)
	sum := 0.0
	for _, v := range ratings {
		sum += v
	}
	sorted := append([]float64(nil), ratings...)
	sort.Float64s(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	out := []string{
		"",
		"=== 평점 통계 ===",
		fmt.Sprintf("평균 평점: %.2f", sum/float64(n)),
		fmt.Sprintf("최소: %s, 최대: %s, 중앙값: %.2f",
			formatRating(sorted[0]), formatRating(sorted[n-1]), median),
		"",
		"평점별 건수 (표 형태):",
	}

	counts := make(map[float64]int)
	for _, v := range ratings {
		counts[v]++
	}
	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("  평점 %s: %d건 (%.1f%%)",
			formatRating(k), counts[k], pct(counts[k], n)))
	}
	out = append(out, "")

	var neg, mid, pos int
	for _, v := range ratings {
		switch {
		case v < th.Negative:
			neg++
		case v < th.Positive:
			mid++
		default:
			pos++
		}
	}
	out = append(out,
		"=== 긍정/부정/중립 리뷰 분포 (평점 기준) ===",
		fmt.Sprintf("  부정 (평점 < %s): %d건 (%.1f%%)", formatRating(th.Negative), neg, pct(neg, n)),
		fmt.Sprintf("  중립 (평점 %s~%s 미만): %d건 (%.1f%%)", formatRating(th.Negative), formatRating(th.Positive), mid, pct(mid, n)),
		fmt.Sprintf("  긍정 (평점 >= %s): %d건 (%.1f%%)", formatRating(th.Positive), pos, pct(pos, n)),
		"",
	)
	return out
}

type valueCount struct {
	value string
	count int
}

// countValues tallies trimmed non-empty cells in first-encountered order.
func countValues(cells []string) []valueCount {
	index := make(map[string]int)
	var out []valueCount
	for _, c := range cells {
		s := strings.TrimSpace(c)
		if s == "" {
			continue
		}
		if i, ok := index[s]; ok {
			out[i].count++
		} else {
			index[s] = len(out)
			out = append(out, valueCount{value: s, count: 1})
		}
	}
	return out
}

// sortByCountDesc orders by descending count; ties keep first-encountered
// order so output stays deterministic.
func sortByCountDesc(vc []valueCount) {
	sort.SliceStable(vc, func(i, j int) bool { return vc[i].count > vc[j].count })
}

func appendDistribution(lines []string, title string, cells []string) []string {
	vc := countValues(cells)
	if len(vc) == 0 {
		return lines
	}
	sortByCountDesc(vc)
	n := 0
	for _, e := range vc {
		n += e.count
	}
	lines = append(lines, "=== "+title+" ===")
	for _, e := range vc {
		lines = append(lines, fmt.Sprintf("  %s: %d건 (%.1f%%)", e.value, e.count, pct(e.count, n)))
	}
	return append(lines, "")
}

func appendDateDistribution(lines []string, cells []string) []string {
	var dates []time.Time
	for _, c := range cells {
		if d, ok := parseDate(c); ok {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return lines
	}
	minD, maxD := dates[0], dates[0]
	months := make(map[string]int)
	for _, d := range dates {
		if d.Before(minD) {
			minD = d
		}
		if d.After(maxD) {
			maxD = d
		}
		months[d.Format("2006-01")]++
	}
	lines = append(lines, "=== 구매일자 분포 ===")
	lines = append(lines, fmt.Sprintf("  기간: %s ~ %s", minD.Format("2006-01-02"), maxD.Format("2006-01-02")))

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys) // YYYY-MM sorts chronologically
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s: %d건 (%.1f%%)", k, months[k], pct(months[k], len(dates))))
	}
	return append(lines, "")
}

func appendTopProducts(lines []string, cells []string) []string {
	vc := countValues(cells)
	if len(vc) == 0 {
		return lines
	}
	sortByCountDesc(vc)
	if len(vc) > topProductCount {
		vc = vc[:topProductCount]
	}
	lines = append(lines, fmt.Sprintf("=== 제품(모델)별 리뷰 수 (상위 %d) ===", topProductCount))
	for _, e := range vc {
		lines = append(lines, fmt.Sprintf("  %s: %d건", e.value, e.count))
	}
	return append(lines, "")
}

// reviewSample picks up to maxSampleReviews review texts. When numeric
// ratings exist for rows with a review, the half-cap highest-rated block is
// followed by the half-cap lowest-rated block, deduplicated in order;
// otherwise the first rows in table order are taken. Long texts are cut at
// maxCharsPerReview runes with a "..." marker.
func reviewSample(t *Table, reviewCol string, ratingAt map[int]float64) []string {
	cells, _ := t.Column(reviewCol)
	trimmed := make([]string, len(cells))
	var nonEmpty []int
	for i, c := range cells {
		trimmed[i] = strings.TrimSpace(c)
		if trimmed[i] != "" {
			nonEmpty = append(nonEmpty, i)
		}
	}
	if len(nonEmpty) == 0 {
		return []string{"=== 리뷰 샘플 ===", "(없음)"}
	}

	var rated []int
	for _, i := range nonEmpty {
		if _, ok := ratingAt[i]; ok {
			rated = append(rated, i)
		}
	}

	var picked []int
	if len(rated) > 0 {
		half := maxSampleReviews / 2
		high := append([]int(nil), rated...)
		sort.SliceStable(high, func(a, b int) bool { return ratingAt[high[a]] > ratingAt[high[b]] })
		if len(high) > half {
			high = high[:half]
		}
		low := append([]int(nil), rated...)
		sort.SliceStable(low, func(a, b int) bool { return ratingAt[low[a]] < ratingAt[low[b]] })
		if len(low) > half {
			low = low[:half]
		}
		seen := make(map[int]bool)
		for _, i := range append(high, low...) {
			if seen[i] {
				continue
			}
			seen[i] = true
			picked = append(picked, i)
			if len(picked) == maxSampleReviews {
				break
			}
		}
	} else {
		for _, i := range nonEmpty {
			picked = append(picked, i)
			if len(picked) == maxSampleReviews {
				break
			}
		}
	}

	out := []string{"=== 리뷰 텍스트 샘플 (상·하위 평점 위주) ==="}
	for n, i := range picked {
		text := trimmed[i]
		if r := []rune(text); len(r) > maxCharsPerReview {
			text = string(r[:maxCharsPerReview]) + "..."
		}
		out = append(out, fmt.Sprintf("[%d] %s", n+1, text))
	}
	return out
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pct(count, total int) float64 {
	return 100 * float64(count) / float64(total)
}
