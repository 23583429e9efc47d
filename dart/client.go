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
package dart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/dart-vault/dartdata/data"
)

const DefaultBaseURL = "https://opendart.fss.or.kr/api"

var (
	ErrInvalidStatusCode = errors.New("invalid status code received")
)

// DART logical status codes. "000" is success; "013" means no data
// exists for the requested slice. Any non-success status is treated as
// "no data", never as a transport failure.
const (
	statusOK     = "000"
	statusNoData = "013"
)

// Client talks to the DART Open API. It owns a shared rate limiter so
// parallel fan-out in the orchestrators cannot exceed the regulator's
// per-minute quota.
type Client struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// New creates a DART client. requestsPerMinute <= 0 selects the
// published default quota of 1000 requests per minute.
func New(apiKey string, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1000
	}

	client := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetQueryParam("crtfc_key", apiKey)
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	return &Client{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/float64(61)), 1),
	}
}

// SetBaseURL overrides the API endpoint; used by tests.
func (c *Client) SetBaseURL(baseURL string) *Client {
	c.client.SetBaseURL(baseURL)
	return c
}

type financialsResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	List    []data.RawLineItem `json:"list"`
}

// Financials fetches the single-account financial statement line items
// for one corp, fiscal year, and report code. A DART logical failure
// (status != "000") yields an empty slice and no error so that partial
// aggregation can proceed; transport failures propagate.
func (c *Client) Financials(ctx context.Context, corpCode string, year int, code data.ReportCode) ([]data.RawLineItem, error) {
	logger := zerolog.Ctx(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var respContent financialsResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("corp_code", corpCode).
		SetQueryParam("bsns_year", strconv.Itoa(year)).
		SetQueryParam("reprt_code", string(code)).
		SetResult(&respContent).
		Get("/fnlttSinglAcnt.json")
	if err != nil {
		logger.Error().Err(err).Str("CorpCode", corpCode).Int("Year", year).
			Str("ReportCode", string(code)).Msg("resty returned an error when querying fnlttSinglAcnt")
		return nil, err
	}

	if resp.StatusCode() >= 300 {
		logger.Error().Int("StatusCode", resp.StatusCode()).Str("ResponseBody", string(resp.Body())).
			Msg("received an invalid status code when querying fnlttSinglAcnt")
		return nil, fmt.Errorf("%w (%d): %s", ErrInvalidStatusCode, resp.StatusCode(), string(resp.Body()))
	}

	if respContent.Status != statusOK {
		if respContent.Status != statusNoData {
			logger.Warn().Str("Status", respContent.Status).Str("Message", respContent.Message).
				Str("CorpCode", corpCode).Int("Year", year).Msg("dart returned a non-success status")
		} else {
			logger.Debug().Str("CorpCode", corpCode).Int("Year", year).
				Str("ReportCode", string(code)).Msg("no filing exists for this slice")
		}

		return nil, nil
	}

	return respContent.List, nil
}

// Disclosure is one entry from the DART filing list endpoint.
type Disclosure struct {
	CorpCode  string `json:"corp_code"`
	CorpName  string `json:"corp_name"`
	StockCode string `json:"stock_code"`
	ReportNm  string `json:"report_nm"`
	RceptNo   string `json:"rcept_no"`
	FlrNm     string `json:"flr_nm"`
	RceptDt   string `json:"rcept_dt"` // YYYYMMDD
	Rm        string `json:"rm"`
}

type disclosureResponse struct {
	Status     string       `json:"status"`
	Message    string       `json:"message"`
	PageNo     int          `json:"page_no"`
	PageCount  int          `json:"page_count"`
	TotalCount int          `json:"total_count"`
	List       []Disclosure `json:"list"`
}

// Disclosures lists exchange filings for one corp within a date window.
// Logical failures yield an empty slice, matching Financials.
func (c *Client) Disclosures(ctx context.Context, corpCode string, begin, end time.Time) ([]Disclosure, error) {
	logger := zerolog.Ctx(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var respContent disclosureResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("corp_code", corpCode).
		SetQueryParam("bgn_de", begin.Format("20060102")).
		SetQueryParam("end_de", end.Format("20060102")).
		SetQueryParam("pblntf_ty", "I").
		SetQueryParam("page_count", "100").
		SetResult(&respContent).
		Get("/list.json")
	if err != nil {
		logger.Error().Err(err).Str("CorpCode", corpCode).Msg("resty returned an error when querying list")
		return nil, err
	}

	if resp.StatusCode() >= 300 {
		logger.Error().Int("StatusCode", resp.StatusCode()).Str("ResponseBody", string(resp.Body())).
			Msg("received an invalid status code when querying list")
		return nil, fmt.Errorf("%w (%d): %s", ErrInvalidStatusCode, resp.StatusCode(), string(resp.Body()))
	}

	if respContent.Status != statusOK {
		logger.Debug().Str("Status", respContent.Status).Str("CorpCode", corpCode).
			Msg("no disclosures for this window")
		return nil, nil
	}

	return respContent.List, nil
}

// Document downloads the raw document archive for a filing. The body is
// a zip whose first entry holds the disclosure HTML.
func (c *Client) Document(ctx context.Context, rceptNo string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("rcept_no", rceptNo).
		Get("/document.xml")
	if err != nil {
		logger.Error().Err(err).Str("RceptNo", rceptNo).Msg("resty returned an error when downloading document")
		return nil, err
	}

	if resp.StatusCode() >= 300 {
		logger.Error().Int("StatusCode", resp.StatusCode()).Str("RceptNo", rceptNo).
			Msg("received an invalid status code when downloading document")
		return nil, fmt.Errorf("%w (%d)", ErrInvalidStatusCode, resp.StatusCode())
	}

	return resp.Body(), nil
}
