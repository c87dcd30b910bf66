package calendar

import "time"

// Term identifies one of the 24 solar terms, in calendar order from XiaoHan
// (early January).
type Term int

const (
	XiaoHan Term = iota // minor cold, January
	DaHan               // major cold
	LiChun              // start of spring, February; sexagenary year boundary
	YuShui
	JingZhe // awakening insects, March
	ChunFen
	QingMing // April
	GuYu
	LiXia // May
	XiaoMan
	MangZhong // June
	XiaZhi
	XiaoShu // July
	DaShu
	LiQiu // August
	ChuShu
	BaiLu // September
	QiuFen
	HanLu // October
	ShuangJiang
	LiDong // November
	XiaoXue
	DaXue // December
	DongZhi
)

// Supported year range of the coefficient tables below.
const (
	MinYear = 1900
	MaxYear = 2099
)

// Day-of-month coefficients for the century formula
// day = floor(Y*0.2422 + C) - leap, Y = year mod 100. The leap correction is
// floor((Y-1)/4) for January/February terms and floor(Y/4) otherwise.
// Standard tables for 1900-1999 and 2000-2099.
var termC19 = [24]float64{
	6.11, 20.84, // XiaoHan DaHan
	4.6295, 19.4599, // LiChun YuShui
	6.3826, 21.4155, // JingZhe ChunFen
	5.59, 20.888, // QingMing GuYu
	6.318, 21.86, // LiXia XiaoMan
	6.5, 22.2, // MangZhong XiaZhi
	7.928, 23.65, // XiaoShu DaShu
	8.35, 23.95, // LiQiu ChuShu
	8.44, 23.822, // BaiLu QiuFen
	9.098, 24.218, // HanLu ShuangJiang
	8.218, 23.08, // LiDong XiaoXue
	7.9, 22.6, // DaXue DongZhi
}

var termC20 = [24]float64{
	5.4055, 20.12,
	3.87, 18.73,
	5.63, 20.646,
	4.81, 20.1,
	5.52, 21.04,
	5.678, 21.37,
	7.108, 22.83,
	7.5, 23.13,
	7.646, 23.042,
	8.318, 23.438,
	7.438, 22.36,
	7.18, 21.94,
}

// Known exception years where the century formula is off by one day.
var termExceptions = map[Term]map[int]int{
	XiaoHan:     {1982: 1, 2019: -1},
	DaHan:       {2082: 1},
	YuShui:      {2026: -1},
	ChunFen:     {2084: 1},
	XiaoMan:     {2008: 1},
	MangZhong:   {1902: 1},
	XiaZhi:      {1928: 1},
	XiaoShu:     {1925: 1, 2016: 1},
	DaShu:       {1922: 1},
	LiQiu:       {2002: 1},
	BaiLu:       {1927: 1},
	QiuFen:      {1942: 1},
	ShuangJiang: {2089: 1},
	LiDong:      {2089: 1},
	XiaoXue:     {1978: 1},
	DaXue:       {1954: 1},
	DongZhi:     {1918: -1, 2021: -1},
}

// TermDate returns the civil date (local midnight in loc) on which the term
// falls in the given year. Day-level resolution; the term boundary is the
// inclusive lower bound of that date. Year must be within [MinYear, MaxYear].
func TermDate(year int, term Term, loc *time.Location) time.Time {
	y := year % 100
	var c float64
	if year < 2000 {
		c = termC19[term]
	} else {
		c = termC20[term]
	}
	var leap int
	if term <= YuShui {
		leap = floorDiv(y-1, 4)
	} else {
		leap = floorDiv(y, 4)
	}
	day := int(float64(y)*0.2422+c) - leap
	if fix, ok := termExceptions[term][year]; ok {
		day += fix
	}
	month := time.Month(int(term)/2 + 1)
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// monthJie lists the twelve "jie" terms that open sexagenary months, paired
// with the branch of the month they begin. LiChun opens the Yin month and the
// sexagenary year.
var monthJie = [12]struct {
	term   Term
	branch int
}{
	{XiaoHan, 1},   // Chou, belongs to the previous sexagenary year
	{LiChun, 2},    // Yin
	{JingZhe, 3},   // Mao
	{QingMing, 4},  // Chen
	{LiXia, 5},     // Si
	{MangZhong, 6}, // Wu
	{XiaoShu, 7},   // Wei
	{LiQiu, 8},     // Shen
	{BaiLu, 9},     // You
	{HanLu, 10},    // Xu
	{LiDong, 11},   // Hai
	{DaXue, 0},     // Zi
}

// solarMonth resolves the sexagenary month branch and the solar year the
// month belongs to, for a corrected local time t. The solar year changes at
// LiChun, not January 1.
func solarMonth(t time.Time) (branch int, solarYear int) {
	// Walk the jie of t's civil year plus the last two of the previous year;
	// pick the latest boundary not after t.
	type boundary struct {
		at     time.Time
		branch int
		year   int
	}
	var bs []boundary
	for _, yr := range [2]int{t.Year() - 1, t.Year()} {
		for _, j := range monthJie {
			sy := yr
			if j.term < LiChun { // the Chou month in January precedes LiChun
				sy = yr - 1
			}
			bs = append(bs, boundary{at: TermDate(yr, j.term, t.Location()), branch: j.branch, year: sy})
		}
	}
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	best := bs[0]
	for _, b := range bs {
		if !b.at.After(dayStart) && b.at.After(best.at) {
			best = b
		}
	}
	return best.branch, best.year
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
