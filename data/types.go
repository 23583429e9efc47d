// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package data

import (
	"fmt"
	"time"
)

// Quarter identifies a fiscal quarter. The zero value means the record
// carries yearly semantics and no quarter at all.
type Quarter string

const (
	Q1 Quarter = "1Q"
	Q2 Quarter = "2Q"
	Q3 Quarter = "3Q"
	Q4 Quarter = "4Q"
)

// Order returns the chronological position of the quarter within a year.
// An empty quarter sorts with 4Q because a yearly record represents the
// full fiscal year.
func (q Quarter) Order() int {
	switch q {
	case Q1:
		return 1
	case Q2:
		return 2
	case Q3:
		return 3
	case Q4, "":
		return 4
	}

	return 0
}

// Next returns the quarter chronologically after q, rolling 4Q of one
// year over to 1Q of the next.
func (q Quarter) Next(year int) (int, Quarter) {
	switch q {
	case Q1:
		return year, Q2
	case Q2:
		return year, Q3
	case Q3:
		return year, Q4
	default:
		return year + 1, Q1
	}
}

// QuarterOfMonth maps a calendar month to the fiscal quarter it falls in.
func QuarterOfMonth(month time.Month) Quarter {
	switch {
	case month <= time.March:
		return Q1
	case month <= time.June:
		return Q2
	case month <= time.September:
		return Q3
	default:
		return Q4
	}
}

// ReportCode is the DART-assigned identifier for the type of periodic
// filing. Each code corresponds to exactly one fiscal quarter.
type ReportCode string

const (
	ReportQ1     ReportCode = "11013" // 분기보고서 (1Q)
	ReportHalf   ReportCode = "11012" // 반기보고서 (2Q)
	ReportQ3     ReportCode = "11014" // 분기보고서 (3Q)
	ReportAnnual ReportCode = "11011" // 사업보고서 (annual, cumulative year)
)

// Quarter returns the fiscal quarter the report code covers.
func (rc ReportCode) Quarter() Quarter {
	switch rc {
	case ReportQ1:
		return Q1
	case ReportHalf:
		return Q2
	case ReportQ3:
		return Q3
	case ReportAnnual:
		return Q4
	}

	return ""
}

// Label returns the human-readable Korean filing name.
func (rc ReportCode) Label() string {
	switch rc {
	case ReportQ1:
		return "1분기보고서"
	case ReportHalf:
		return "반기보고서"
	case ReportQ3:
		return "3분기보고서"
	case ReportAnnual:
		return "사업보고서"
	}

	return string(rc)
}

// ReportCodeForQuarter is the inverse of ReportCode.Quarter.
func ReportCodeForQuarter(q Quarter) ReportCode {
	switch q {
	case Q1:
		return ReportQ1
	case Q2:
		return ReportHalf
	case Q3:
		return ReportQ3
	default:
		return ReportAnnual
	}
}

// Mode selects between the yearly and quarterly pipelines.
type Mode string

const (
	ModeYearly    Mode = "yearly"
	ModeQuarterly Mode = "quarterly"
)

// FinancialRecord is the canonical per-period output unit. All six
// numeric fields are independently nullable; missing data stays nil and
// is never substituted with zero.
type FinancialRecord struct {
	Year             int        `json:"year" csv:"year" db:"year"`
	Quarter          Quarter    `json:"quarter,omitempty" csv:"quarter" db:"quarter"`
	ReportCode       ReportCode `json:"reportCode" csv:"report_code" db:"report_code"`
	Label            string     `json:"label" csv:"label" db:"label"`
	Revenue          *float64   `json:"revenue" csv:"revenue" db:"revenue"`
	OperatingProfit  *float64   `json:"operatingProfit" csv:"operating_profit" db:"operating_profit"`
	NetIncome        *float64   `json:"netIncome" csv:"net_income" db:"net_income"`
	TotalAssets      *float64   `json:"totalAssets" csv:"total_assets" db:"total_assets"`
	TotalLiabilities *float64   `json:"totalLiabilities" csv:"total_liabilities" db:"total_liabilities"`
	TotalEquity      *float64   `json:"totalEquity" csv:"total_equity" db:"total_equity"`
	IsProvisional    bool       `json:"isProvisional,omitempty" csv:"is_provisional" db:"is_provisional"`
}

// Account returns the record field for key.
func (r *FinancialRecord) Account(key AccountKey) *float64 {
	switch key {
	case Revenue:
		return r.Revenue
	case OperatingProfit:
		return r.OperatingProfit
	case NetIncome:
		return r.NetIncome
	case TotalAssets:
		return r.TotalAssets
	case TotalLiabilities:
		return r.TotalLiabilities
	case TotalEquity:
		return r.TotalEquity
	}

	return nil
}

// SetAccount stores v in the record field for key.
func (r *FinancialRecord) SetAccount(key AccountKey, v *float64) {
	switch key {
	case Revenue:
		r.Revenue = v
	case OperatingProfit:
		r.OperatingProfit = v
	case NetIncome:
		r.NetIncome = v
	case TotalAssets:
		r.TotalAssets = v
	case TotalLiabilities:
		r.TotalLiabilities = v
	case TotalEquity:
		r.TotalEquity = v
	}
}

// RecordLabel builds the display label for a record: "2024" for yearly
// records, "24.3Q" for quarterly records.
func RecordLabel(year int, quarter Quarter) string {
	if quarter == "" {
		return fmt.Sprintf("%d", year)
	}

	return fmt.Sprintf("%02d.%s", year%100, quarter)
}

// FinancialResponse is the public output contract consumed by callers.
// Data is sorted ascending chronologically and ready for direct tabular
// or chart rendering; callers perform no further transformation.
type FinancialResponse struct {
	CorpCode string             `json:"corpCode"`
	Mode     Mode               `json:"mode"`
	Data     []*FinancialRecord `json:"data"`
}

// RawLineItem is a single row from the DART single-account financial
// statement API. A filing reports three periods at once, relative to its
// base fiscal year, as pre-localized amount strings.
type RawLineItem struct {
	RceptNo         string `json:"rcept_no"`
	BsnsYear        string `json:"bsns_year"`
	StockCode       string `json:"stock_code"`
	FsDiv           string `json:"fs_div"` // CFS or OFS
	FsNm            string `json:"fs_nm"`
	SjDiv           string `json:"sj_div"`
	SjNm            string `json:"sj_nm"`
	AccountNm       string `json:"account_nm"`
	ThstrmNm        string `json:"thstrm_nm"`
	ThstrmDt        string `json:"thstrm_dt"`
	ThstrmAmount    string `json:"thstrm_amount"`
	FrmtrmNm        string `json:"frmtrm_nm"`
	FrmtrmAmount    string `json:"frmtrm_amount"`
	BfefrmtrmNm     string `json:"bfefrmtrm_nm"`
	BfefrmtrmAmount string `json:"bfefrmtrm_amount"`
	Currency        string `json:"currency"`
}

// Statement type discriminators used by the DART API.
const (
	FsConsolidated = "CFS"
	FsSeparate     = "OFS"
)
