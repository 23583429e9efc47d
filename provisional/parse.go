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

// Package provisional extracts announced-but-unfiled earnings figures
// from DART provisional performance disclosures. These documents are
// scraped HTML forms, not structured API responses; every selector in
// this package is coupled to the regulator's current form layout and is
// expected to be fragile. All failures soft-fail to nil so the caller's
// pipeline never crashes on a layout change.
package provisional

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dart-vault/dartdata/data"
)

var (
	yearPattern = regexp.MustCompile(`\d{4}`)
	datePattern = regexp.MustCompile(`(\d{4})\D+(\d{1,2})`)
	unitPattern = regexp.MustCompile(`단위\s*[:：]\s*(조원|억원|백만원|천원)`)
)

// unitMultipliers maps the disclosed unit marker to a won multiplier.
// An absent or unrecognized unit leaves amounts unscaled.
var unitMultipliers = map[string]float64{
	"조원":  1e12,
	"억원":  1e8,
	"백만원": 1e6,
	"천원":  1e3,
}

// Parse extracts a provisional FinancialRecord from the raw bytes of a
// DART document archive (a zip whose first entry is the disclosure
// HTML). It returns nil whenever the archive, the period table, or the
// figures cannot be extracted.
func Parse(archive []byte) *data.FinancialRecord {
	doc := readDocument(archive)
	if doc == nil {
		return nil
	}

	year, quarter, ok := extractPeriod(doc)
	if !ok {
		return nil
	}

	record := &data.FinancialRecord{
		Year:          year,
		Quarter:       quarter,
		ReportCode:    data.ReportCodeForQuarter(quarter),
		Label:         data.RecordLabel(year, quarter),
		IsProvisional: true,
	}

	if extractFigures(doc, record) == 0 {
		// a parse that found the period but no figures is not useful
		return nil
	}

	return record
}

// readDocument decompresses the archive and parses its first entry as
// UTF-8 HTML.
func readDocument(archive []byte) *goquery.Document {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil || len(reader.File) == 0 {
		return nil
	}

	entry, err := reader.File[0].Open()
	if err != nil {
		return nil
	}
	defer entry.Close()

	content, err := io.ReadAll(entry)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil
	}

	return doc
}

// findTable returns the first table whose full text contains marker.
func findTable(doc *goquery.Document, marker string) *goquery.Selection {
	var found *goquery.Selection

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if strings.Contains(table.Text(), marker) {
			found = table
			return false
		}

		return true
	})

	return found
}

// inputText returns the value of an input-like element, preferring its
// value attribute over its text content.
func inputText(sel *goquery.Selection) string {
	if value, ok := sel.Attr("value"); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}

	return strings.TrimSpace(sel.Text())
}

// extractPeriod reads the reporting period from the disclosure's period
// table: the second input-like element holds the current period's end
// date. The fiscal year is the first 4-digit run in that date and the
// quarter follows from the end month.
func extractPeriod(doc *goquery.Document) (int, data.Quarter, bool) {
	table := findTable(doc, "결산기간")
	if table == nil {
		return 0, "", false
	}

	inputs := table.Find("input")
	if inputs.Length() < 2 {
		return 0, "", false
	}

	endDate := inputText(inputs.Eq(1))

	yearText := yearPattern.FindString(endDate)
	if yearText == "" {
		return 0, "", false
	}
	year, _ := strconv.Atoi(yearText)

	dateParts := datePattern.FindStringSubmatch(endDate)
	if dateParts == nil {
		return 0, "", false
	}

	month, err := strconv.Atoi(dateParts[2])
	if err != nil || month < 1 || month > 12 {
		return 0, "", false
	}

	var quarter data.Quarter
	switch {
	case month <= 3:
		quarter = data.Q1
	case month <= 6:
		quarter = data.Q2
	case month <= 9:
		quarter = data.Q3
	default:
		quarter = data.Q4
	}

	return year, quarter, true
}

// mapRowLabel resolves a data-table row label to a canonical account
// key. On top of the shared synonym table there is one heuristic unique
// to provisional forms: rows naming controlling-interest net income
// (지배기업 ... 순이익) count as netIncome.
func mapRowLabel(label string) (data.AccountKey, bool) {
	if key, ok := data.FindAccountKey(label); ok {
		return key, true
	}

	if strings.Contains(label, "지배기업") && strings.Contains(label, "순이익") {
		return data.NetIncome, true
	}

	return "", false
}

// extractFigures walks the repeating data table and fills record with
// every current-period ("당해") row whose label maps to a tracked
// account. It returns the number of accounts populated.
func extractFigures(doc *goquery.Document, record *data.FinancialRecord) int {
	table := findTable(doc, "당해실적")
	if table == nil {
		return 0
	}

	multiplier := 1.0
	if match := unitPattern.FindStringSubmatch(table.Text()); match != nil {
		multiplier = unitMultipliers[match[1]]
	}

	populated := 0

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		key, ok := mapRowLabel(strings.TrimSpace(cells.Eq(0).Text()))
		if !ok {
			return
		}

		// the repeating block carries prior-period rows too; only the
		// current-period row qualifies
		if !strings.Contains(cells.Eq(1).Text(), "당해") {
			return
		}

		amountCell := cells.Eq(2)
		raw := amountCell.Text()
		if input := amountCell.Find("input"); input.Length() > 0 {
			raw = inputText(input.First())
		}

		value := data.ParseAmount(raw)
		if value == nil {
			return
		}

		if record.Account(key) == nil {
			record.SetAccount(key, data.Float(*value*multiplier))
			populated++
		}
	})

	return populated
}
