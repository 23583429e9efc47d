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
	"strconv"
	"strings"
)

// ParseAmount converts a locale-formatted amount string into a nullable
// number. Empty strings and the "-" placeholder yield nil, as does any
// value that is not numeric after stripping thousands separators. The
// function never panics.
func ParseAmount(text string) *float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "-" {
		return nil
	}

	trimmed = strings.ReplaceAll(trimmed, ",", "")

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}

	return &value
}

// Float is a convenience constructor for nullable amounts.
func Float(v float64) *float64 {
	return &v
}
