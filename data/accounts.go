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

// AccountKey identifies one of the canonical financial accounts tracked
// by the pipeline.
type AccountKey string

const (
	Revenue          AccountKey = "revenue"
	OperatingProfit  AccountKey = "operatingProfit"
	NetIncome        AccountKey = "netIncome"
	TotalAssets      AccountKey = "totalAssets"
	TotalLiabilities AccountKey = "totalLiabilities"
	TotalEquity      AccountKey = "totalEquity"
)

// AccountKeys lists every canonical key in display order.
func AccountKeys() []AccountKey {
	return []AccountKey{
		Revenue,
		OperatingProfit,
		NetIncome,
		TotalAssets,
		TotalLiabilities,
		TotalEquity,
	}
}

// IncomeKeys lists the income-statement keys, the subset reported
// cumulatively in annual filings.
func IncomeKeys() []AccountKey {
	return []AccountKey{Revenue, OperatingProfit, NetIncome}
}

// accountSynonyms maps each canonical key to the ordered list of source
// labels that DART filings use for it. Matching is case-sensitive and
// exact; the first key whose synonym list contains the label wins.
var accountSynonyms = map[AccountKey][]string{
	Revenue:          {"매출액", "영업수익", "수익(매출액)", "매출"},
	OperatingProfit:  {"영업이익", "영업이익(손실)"},
	NetIncome:        {"당기순이익", "당기순이익(손실)", "연결당기순이익", "당기순손익"},
	TotalAssets:      {"자산총계"},
	TotalLiabilities: {"부채총계"},
	TotalEquity:      {"자본총계"},
}

// accountLabels holds the canonical human-readable label per key.
var accountLabels = map[AccountKey]string{
	Revenue:          "매출액",
	OperatingProfit:  "영업이익",
	NetIncome:        "당기순이익",
	TotalAssets:      "자산총계",
	TotalLiabilities: "부채총계",
	TotalEquity:      "자본총계",
}

// FindAccountKey maps a source line-item label to its canonical key.
// Regulatory filings contain many line items the pipeline does not
// track, so a missing mapping is an expected outcome, not an error.
func FindAccountKey(label string) (AccountKey, bool) {
	for _, key := range AccountKeys() {
		for _, synonym := range accountSynonyms[key] {
			if synonym == label {
				return key, true
			}
		}
	}

	return "", false
}

// AccountLabel returns the canonical display label for key. It is total
// over the AccountKey enum.
func AccountLabel(key AccountKey) string {
	return accountLabels[key]
}
