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

// Package corpcode resolves 6-digit exchange stock codes to the 8-digit
// corp codes the DART API addresses companies by.
package corpcode

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/alphadose/haxmap"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const downloadURL = "https://opendart.fss.or.kr/api/corpCode.xml"

var (
	ErrInvalidStatusCode = errors.New("invalid status code received")
	ErrEmptyArchive      = errors.New("corp code archive contains no entries")
)

var codeMap *haxmap.Map[string, string]

func init() {
	codeMap = haxmap.New[string, string]()
}

// MapInstance exposes the in-memory stock-code to corp-code map.
func MapInstance() *haxmap.Map[string, string] {
	return codeMap
}

// Entry is one company in the regulator's corp-code index.
type Entry struct {
	CorpCode   string `xml:"corp_code" db:"corp_code"`
	CorpName   string `xml:"corp_name" db:"corp_name"`
	StockCode  string `xml:"stock_code" db:"stock_code"`
	ModifyDate string `xml:"modify_date" db:"modify_date"`
}

type corpIndex struct {
	XMLName xml.Name `xml:"result"`
	List    []*Entry `xml:"list"`
}

// Resolve looks a stock code up in the in-memory map.
func Resolve(stockCode string) (string, bool) {
	return codeMap.Get(stockCode)
}

// Download fetches the full corp-code index from DART (a zip wrapping
// one XML document), loads every listed company into the in-memory map,
// and returns the entries for persistence. Unlisted companies carry a
// blank stock code and are kept out of the map.
func Download(ctx context.Context, apiKey string) ([]*Entry, error) {
	client := resty.New()

	resp, err := client.R().
		SetContext(ctx).
		SetQueryParam("crtfc_key", apiKey).
		Get(downloadURL)
	if err != nil {
		log.Error().Err(err).Msg("resty returned an error when downloading corp codes")
		return nil, err
	}

	if resp.StatusCode() >= 300 {
		log.Error().Int("StatusCode", resp.StatusCode()).Msg("received an invalid status code when downloading corp codes")
		return nil, fmt.Errorf("%w (%d)", ErrInvalidStatusCode, resp.StatusCode())
	}

	entries, err := parseArchive(resp.Body())
	if err != nil {
		return nil, err
	}

	load(entries)

	log.Info().Int("Count", len(entries)).Msg("downloaded corp code index")

	return entries, nil
}

func parseArchive(archive []byte) ([]*Entry, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, err
	}

	if len(reader.File) == 0 {
		return nil, ErrEmptyArchive
	}

	entry, err := reader.File[0].Open()
	if err != nil {
		return nil, err
	}
	defer entry.Close()

	content, err := io.ReadAll(entry)
	if err != nil {
		return nil, err
	}

	var index corpIndex
	if err := xml.Unmarshal(content, &index); err != nil {
		return nil, err
	}

	if len(index.List) == 0 {
		return nil, ErrEmptyArchive
	}

	return index.List, nil
}

func load(entries []*Entry) {
	for _, entry := range entries {
		if entry.StockCode == "" || entry.StockCode == " " {
			continue
		}

		codeMap.Set(entry.StockCode, entry.CorpCode)
	}
}
