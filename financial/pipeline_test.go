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
package financial

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dart-vault/dartdata/data"
)

// fakeSource serves canned filings keyed by (year, report code) and a
// canned provisional record keyed by (year, quarter).
type fakeSource struct {
	financials     map[string][]data.RawLineItem
	provisionals   map[string]*data.FinancialRecord
	financialsErr  error
	provisionalErr error
}

func filingKey(year int, code data.ReportCode) string {
	return fmt.Sprintf("%d-%s", year, code)
}

func periodKey(year int, quarter data.Quarter) string {
	return fmt.Sprintf("%d-%s", year, quarter)
}

func (f *fakeSource) Financials(_ context.Context, _ string, year int, code data.ReportCode) ([]data.RawLineItem, error) {
	if f.financialsErr != nil {
		return nil, f.financialsErr
	}

	return f.financials[filingKey(year, code)], nil
}

func (f *fakeSource) Provisional(_ context.Context, _ string, year int, quarter data.Quarter) (*data.FinancialRecord, error) {
	if f.provisionalErr != nil {
		return nil, f.provisionalErr
	}

	return f.provisionals[periodKey(year, quarter)], nil
}

func annualFiling(baseYear int, current, prior, twoPrior float64) []data.RawLineItem {
	year := fmt.Sprintf("%d", baseYear)
	amount := func(v float64) string { return fmt.Sprintf("%.0f", v) }

	return []data.RawLineItem{
		lineItem(year, data.FsConsolidated, "매출액", amount(current), amount(prior), amount(twoPrior)),
		lineItem(year, data.FsConsolidated, "자산총계", amount(current*10), amount(prior*10), amount(twoPrior*10)),
	}
}

func quarterlyFiling(baseYear int, revenue, operatingProfit, netIncome float64) []data.RawLineItem {
	year := fmt.Sprintf("%d", baseYear)
	amount := func(v float64) string { return fmt.Sprintf("%.0f", v) }

	return []data.RawLineItem{
		lineItem(year, data.FsConsolidated, "매출액", amount(revenue), "-", "-"),
		lineItem(year, data.FsConsolidated, "영업이익", amount(operatingProfit), "-", "-"),
		lineItem(year, data.FsConsolidated, "당기순이익", amount(netIncome), "-", "-"),
	}
}

func labels(records []*data.FinancialRecord) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.Label)
	}

	return out
}

func fixedClock(year int, month time.Month, day int) Clock {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

var _ = Describe("report availability calendar", func() {
	DescribeTable("latestAnnualYear",
		func(month time.Month, expected int) {
			now := time.Date(2025, month, 15, 0, 0, 0, 0, time.UTC)
			Expect(latestAnnualYear(now)).To(Equal(expected))
		},
		Entry("January, last year's report not yet filed", time.January, 2023),
		Entry("March, filing season still in progress", time.March, 2023),
		Entry("April, last year's report available", time.April, 2024),
		Entry("December", time.December, 2024),
	)

	DescribeTable("latestPublishedReport",
		func(month time.Month, expectedYear int, expectedCode data.ReportCode) {
			now := time.Date(2025, month, 15, 0, 0, 0, 0, time.UTC)
			target := latestPublishedReport(now)
			Expect(target.year).To(Equal(expectedYear))
			Expect(target.code).To(Equal(expectedCode))
		},
		Entry("February, before annual filings", time.February, 2024, data.ReportQ3),
		Entry("March, annual report for prior year", time.March, 2024, data.ReportAnnual),
		Entry("May, first quarter report", time.May, 2025, data.ReportQ1),
		Entry("August, half-year report", time.August, 2025, data.ReportHalf),
		Entry("November, third quarter report", time.November, 2025, data.ReportQ3),
	)

	It("walks the publication order backward without gaps", func() {
		now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
		targets := recentReportTargets(now)

		Expect(targets).To(HaveLen(quarterlyWindow))
		Expect(targets[0]).To(Equal(reportTarget{year: 2025, code: data.ReportQ1}))
		Expect(targets[1]).To(Equal(reportTarget{year: 2024, code: data.ReportAnnual}))
		Expect(targets[2]).To(Equal(reportTarget{year: 2024, code: data.ReportQ3}))
		Expect(targets[3]).To(Equal(reportTarget{year: 2024, code: data.ReportHalf}))
		Expect(targets[4]).To(Equal(reportTarget{year: 2024, code: data.ReportQ1}))
		Expect(targets[5]).To(Equal(reportTarget{year: 2023, code: data.ReportAnnual}))
		Expect(targets[6]).To(Equal(reportTarget{year: 2023, code: data.ReportQ3}))
		Expect(targets[7]).To(Equal(reportTarget{year: 2023, code: data.ReportHalf}))
	})
})

var _ = Describe("Pipeline.Yearly", func() {
	var (
		ctx    context.Context
		source *fakeSource
	)

	BeforeEach(func() {
		ctx = context.Background()

		source = &fakeSource{
			financials: map[string][]data.RawLineItem{
				filingKey(2023, data.ReportAnnual): annualFiling(2023, 600, 500, 400),
				filingKey(2020, data.ReportAnnual): annualFiling(2020, 300, 200, 100),
			},
			provisionals: map[string]*data.FinancialRecord{},
		}
	})

	It("covers six fiscal years from two anchored fetches", func() {
		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.March, 15))

		response, err := pipeline.Yearly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())
		Expect(response.Mode).To(Equal(data.ModeYearly))
		Expect(response.CorpCode).To(Equal("00126380"))

		Expect(labels(response.Data)).To(Equal([]string{"2018", "2019", "2020", "2021", "2022", "2023"}))
		Expect(*response.Data[5].Revenue).To(Equal(600.0))
		Expect(*response.Data[0].Revenue).To(Equal(100.0))
	})

	It("splices in a provisional record for the unfiled year", func() {
		source.provisionals[periodKey(2024, data.Q4)] = &data.FinancialRecord{
			Year:          2024,
			Quarter:       data.Q4,
			ReportCode:    data.ReportAnnual,
			Label:         data.RecordLabel(2024, data.Q4),
			Revenue:       data.Float(700),
			IsProvisional: true,
		}

		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.March, 15))

		response, err := pipeline.Yearly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())

		Expect(labels(response.Data)).To(Equal([]string{"2018", "2019", "2020", "2021", "2022", "2023", "2024"}))

		newest := response.Data[len(response.Data)-1]
		Expect(newest.IsProvisional).To(BeTrue())
		Expect(newest.Quarter).To(Equal(data.Quarter("")))
		Expect(*newest.Revenue).To(Equal(700.0))
	})

	It("never repeats a period", func() {
		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.March, 15))

		response, err := pipeline.Yearly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())

		seen := make(map[string]bool)
		for _, record := range response.Data {
			Expect(seen[record.Label]).To(BeFalse(), "duplicate period %s", record.Label)
			seen[record.Label] = true
		}
	})

	It("anchors on the prior year after the spring filing season", func() {
		source.financials[filingKey(2024, data.ReportAnnual)] = annualFiling(2024, 700, 600, 500)
		source.financials[filingKey(2021, data.ReportAnnual)] = annualFiling(2021, 400, 300, 200)

		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.June, 1))

		response, err := pipeline.Yearly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())
		Expect(labels(response.Data)).To(Equal([]string{"2019", "2020", "2021", "2022", "2023", "2024"}))
	})

	It("continues without the provisional fallback when it fails", func() {
		source.provisionalErr = errors.New("scrape failed")

		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.March, 15))

		response, err := pipeline.Yearly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())
		Expect(response.Data).To(HaveLen(6))
	})

	It("propagates structured-fetch failures", func() {
		source.financialsErr = errors.New("api unavailable")

		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.March, 15))

		_, err := pipeline.Yearly(ctx, "00126380")
		Expect(err).To(HaveOccurred())
	})

	It("returns an empty series when no filings exist", func() {
		empty := &fakeSource{
			financials:   map[string][]data.RawLineItem{},
			provisionals: map[string]*data.FinancialRecord{},
		}

		pipeline := NewPipeline(empty).WithClock(fixedClock(2025, time.March, 15))

		response, err := pipeline.Yearly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())
		Expect(response.Data).To(BeEmpty())
	})
})

var _ = Describe("Pipeline.Quarterly", func() {
	var (
		ctx    context.Context
		source *fakeSource
	)

	BeforeEach(func() {
		ctx = context.Background()

		source = &fakeSource{
			financials: map[string][]data.RawLineItem{
				filingKey(2025, data.ReportQ1):     quarterlyFiling(2025, 100, 10, 5),
				filingKey(2024, data.ReportAnnual): quarterlyFiling(2024, 1000, 100, 50),
				filingKey(2024, data.ReportQ3):     quarterlyFiling(2024, 300, 30, 15),
				filingKey(2024, data.ReportHalf):   quarterlyFiling(2024, 250, 25, 12),
				filingKey(2024, data.ReportQ1):     quarterlyFiling(2024, 200, 20, 10),
				filingKey(2023, data.ReportAnnual): quarterlyFiling(2023, 900, 90, 45),
				filingKey(2023, data.ReportQ3):     quarterlyFiling(2023, 280, 28, 14),
				filingKey(2023, data.ReportHalf):   quarterlyFiling(2023, 240, 24, 12),
			},
			provisionals: map[string]*data.FinancialRecord{},
		}
	})

	It("produces a chronological standalone quarter series", func() {
		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.June, 1))

		response, err := pipeline.Quarterly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())
		Expect(response.Mode).To(Equal(data.ModeQuarterly))

		Expect(labels(response.Data)).To(Equal([]string{
			"23.2Q", "23.3Q", "23.4Q", "24.1Q", "24.2Q", "24.3Q", "24.4Q", "25.1Q",
		}))
	})

	It("converts the complete year's 4Q from cumulative to standalone", func() {
		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.June, 1))

		response, err := pipeline.Quarterly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())

		byLabel := make(map[string]*data.FinancialRecord)
		for _, record := range response.Data {
			byLabel[record.Label] = record
		}

		q4 := byLabel["24.4Q"]
		Expect(*q4.Revenue).To(Equal(250.0))         // 1000 - 200 - 250 - 300
		Expect(*q4.OperatingProfit).To(Equal(25.0))  // 100 - 20 - 25 - 30
		Expect(*q4.NetIncome).To(Equal(13.0))        // 50 - 10 - 12 - 15
	})

	It("passes an incomplete year's 4Q through unconverted", func() {
		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.June, 1))

		response, err := pipeline.Quarterly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())

		// 2023's 1Q report falls outside the eight-report window, so the
		// cumulative annual figure stands
		byLabel := make(map[string]*data.FinancialRecord)
		for _, record := range response.Data {
			byLabel[record.Label] = record
		}

		Expect(*byLabel["23.4Q"].Revenue).To(Equal(900.0))
	})

	It("appends a provisional record for the quarter after the newest filing", func() {
		source.provisionals[periodKey(2025, data.Q2)] = &data.FinancialRecord{
			Year:          2025,
			Quarter:       data.Q2,
			ReportCode:    data.ReportHalf,
			Label:         data.RecordLabel(2025, data.Q2),
			Revenue:       data.Float(110),
			IsProvisional: true,
		}

		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.June, 1))

		response, err := pipeline.Quarterly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())

		newest := response.Data[len(response.Data)-1]
		Expect(newest.Label).To(Equal("25.2Q"))
		Expect(newest.IsProvisional).To(BeTrue())
		Expect(*newest.Revenue).To(Equal(110.0))
	})

	It("never repeats a period", func() {
		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.June, 1))

		response, err := pipeline.Quarterly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())

		seen := make(map[string]bool)
		for _, record := range response.Data {
			Expect(seen[record.Label]).To(BeFalse(), "duplicate period %s", record.Label)
			seen[record.Label] = true
		}
	})

	It("skips missing filings without aborting the series", func() {
		delete(source.financials, filingKey(2023, data.ReportHalf))

		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.June, 1))

		response, err := pipeline.Quarterly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())
		Expect(labels(response.Data)).To(Equal([]string{
			"23.3Q", "23.4Q", "24.1Q", "24.2Q", "24.3Q", "24.4Q", "25.1Q",
		}))
	})

	It("continues without the provisional fallback when it fails", func() {
		source.provisionalErr = errors.New("scrape failed")

		pipeline := NewPipeline(source).WithClock(fixedClock(2025, time.June, 1))

		response, err := pipeline.Quarterly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())
		Expect(response.Data).To(HaveLen(8))
	})

	It("does not chase a provisional when no filings exist at all", func() {
		empty := &fakeSource{
			financials:   map[string][]data.RawLineItem{},
			provisionals: map[string]*data.FinancialRecord{},
			provisionalErr: errors.New("should not be called"),
		}

		pipeline := NewPipeline(empty).WithClock(fixedClock(2025, time.June, 1))

		response, err := pipeline.Quarterly(ctx, "00126380")
		Expect(err).ToNot(HaveOccurred())
		Expect(response.Data).To(BeEmpty())
	})
})
