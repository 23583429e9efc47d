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
package data_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dart-vault/dartdata/data"
)

var _ = Describe("FindAccountKey", func() {
	DescribeTable("mapping source labels to canonical keys",
		func(label string, expectedKey data.AccountKey) {
			key, ok := data.FindAccountKey(label)
			Expect(ok).To(BeTrue())
			Expect(key).To(Equal(expectedKey))
		},
		Entry("매출액", "매출액", data.Revenue),
		Entry("영업수익 (financial sector revenue)", "영업수익", data.Revenue),
		Entry("수익(매출액)", "수익(매출액)", data.Revenue),
		Entry("영업이익", "영업이익", data.OperatingProfit),
		Entry("영업이익(손실)", "영업이익(손실)", data.OperatingProfit),
		Entry("당기순이익", "당기순이익", data.NetIncome),
		Entry("당기순이익(손실)", "당기순이익(손실)", data.NetIncome),
		Entry("연결당기순이익", "연결당기순이익", data.NetIncome),
		Entry("자산총계", "자산총계", data.TotalAssets),
		Entry("부채총계", "부채총계", data.TotalLiabilities),
		Entry("자본총계", "자본총계", data.TotalEquity),
	)

	It("rejects untracked line items", func() {
		_, ok := data.FindAccountKey("유동자산")
		Expect(ok).To(BeFalse())

		_, ok = data.FindAccountKey("")
		Expect(ok).To(BeFalse())
	})

	It("matches exactly rather than by substring", func() {
		_, ok := data.FindAccountKey("매출액 합계")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Account accessors", func() {
	It("round-trips every canonical key", func() {
		record := &data.FinancialRecord{}

		for i, key := range data.AccountKeys() {
			record.SetAccount(key, data.Float(float64(i+1)))
		}

		for i, key := range data.AccountKeys() {
			value := record.Account(key)
			Expect(value).ToNot(BeNil())
			Expect(*value).To(Equal(float64(i + 1)))
		}
	})

	It("leaves unset accounts nil", func() {
		record := &data.FinancialRecord{Revenue: data.Float(100)}

		Expect(record.Account(data.Revenue)).ToNot(BeNil())
		Expect(record.Account(data.OperatingProfit)).To(BeNil())
		Expect(record.Account(data.TotalEquity)).To(BeNil())
	})
})
