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

var _ = Describe("ParseAmount", func() {
	DescribeTable("parsing localized amount strings",
		func(input string, expected *float64) {
			result := data.ParseAmount(input)
			if expected == nil {
				Expect(result).To(BeNil())
			} else {
				Expect(result).ToNot(BeNil())
				Expect(*result).To(Equal(*expected))
			}
		},
		Entry("plain integer", "1000", data.Float(1000)),
		Entry("thousands separators", "1,234,567", data.Float(1234567)),
		Entry("negative amount", "-1,234", data.Float(-1234)),
		Entry("surrounding whitespace", "  5,000 ", data.Float(5000)),
		Entry("empty string", "", nil),
		Entry("lone dash placeholder", "-", nil),
		Entry("non-numeric text", "해당없음", nil),
		Entry("zero is a real value", "0", data.Float(0)),
	)

	It("never conflates missing data with zero", func() {
		missing := data.ParseAmount("-")
		zero := data.ParseAmount("0")

		Expect(missing).To(BeNil())
		Expect(zero).ToNot(BeNil())
		Expect(*zero).To(BeZero())
	})
})

var _ = Describe("RecordLabel", func() {
	It("labels yearly records with the full year", func() {
		Expect(data.RecordLabel(2024, "")).To(Equal("2024"))
	})

	It("labels quarterly records with two-digit year and quarter", func() {
		Expect(data.RecordLabel(2024, data.Q3)).To(Equal("24.3Q"))
		Expect(data.RecordLabel(2025, data.Q1)).To(Equal("25.1Q"))
	})

	It("zero-pads years early in a century", func() {
		Expect(data.RecordLabel(2003, data.Q2)).To(Equal("03.2Q"))
	})
})
