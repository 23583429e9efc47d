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
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dart-vault/dartdata/corpcode"
	"github.com/dart-vault/dartdata/dart"
	"github.com/dart-vault/dartdata/data"
	"github.com/dart-vault/dartdata/financial"
	"github.com/dart-vault/dartdata/library"
)

var (
	fetchMode string
	fetchCSV  string
	fetchSave bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [stock-code or corp-code...]",
	Short: "Fetch normalized financial statements from DART",
	Long: `The fetch sub-command runs the financial statement pipeline for one or more
companies. Companies may be given as 6-digit exchange stock codes (resolved
through the corp-code cache) or as 8-digit DART corp codes. Results print as
a rendered table and may additionally be exported to CSV or saved to the
data library.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())

		mode := data.Mode(fetchMode)
		if mode != data.ModeYearly && mode != data.ModeQuarterly {
			log.Fatal().Str("Mode", fetchMode).Msg("mode must be yearly or quarterly")
		}

		apiKey := viper.GetString("dart.api_key")
		if apiKey == "" {
			log.Fatal().Msg("dart.api_key is not configured")
		}

		var myLibrary *library.Library
		if dbURL := viper.GetString("db.url"); dbURL != "" {
			var err error
			if myLibrary, err = library.NewFromDB(ctx, dbURL); err != nil {
				log.Fatal().Err(err).Msg("could not connect to library")
			}
			defer myLibrary.Close()

			corpcode.LoadCacheFromDB(ctx, myLibrary.Pool)
		}

		client := dart.New(apiKey, viper.GetInt("dart.rate_limit"))
		pipeline := financial.NewPipeline(financial.NewDartSource(client))

		for _, arg := range args {
			corpCode := arg
			if len(arg) == 6 {
				resolved, ok := corpcode.Resolve(arg)
				if !ok {
					log.Error().Str("StockCode", arg).Msg("stock code not found in corp-code cache, run `dartdata corpcodes` first")
					continue
				}
				corpCode = resolved
			}

			runSummary := data.NewRunSummary(corpCode, mode)

			var (
				response *data.FinancialResponse
				err      error
			)

			switch mode {
			case data.ModeYearly:
				response, err = pipeline.Yearly(ctx, corpCode)
			case data.ModeQuarterly:
				response, err = pipeline.Quarterly(ctx, corpCode)
			}

			if err != nil {
				runSummary.Status = data.RunFailed
				runSummary.Finish(0)
				log.Error().Err(err).Str("CorpCode", corpCode).Msg("pipeline failed")
				continue
			}

			runSummary.Finish(len(response.Data))

			printResponse(response)

			if fetchCSV != "" {
				if err := writeCSV(fetchCSV, response); err != nil {
					log.Error().Err(err).Str("FileName", fetchCSV).Msg("could not write CSV export")
				}
			}

			if fetchSave && myLibrary != nil {
				if err := myLibrary.SaveFinancials(ctx, response); err != nil {
					log.Error().Err(err).Str("CorpCode", corpCode).Msg("could not save financials to library")
				}

				if err := myLibrary.SaveRunSummary(ctx, runSummary); err != nil {
					log.Error().Err(err).Msg("could not save run summary")
				}
			}
		}
	},
}

// printResponse renders the record series as a markdown table on the
// terminal.
func printResponse(response *data.FinancialResponse) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	builder.WriteString(fmt.Sprintf("# %s (%s)\n\n", response.CorpCode, response.Mode))

	builder.WriteString("| Period |")
	for _, key := range data.AccountKeys() {
		builder.WriteString(fmt.Sprintf(" %s |", data.AccountLabel(key)))
	}
	builder.WriteString("\n|---|---|---|---|---|---|---|\n")

	for _, record := range response.Data {
		label := record.Label
		if record.IsProvisional {
			label += " (잠정)"
		}

		builder.WriteString(fmt.Sprintf("| %s |", label))
		for _, key := range data.AccountKeys() {
			value := record.Account(key)
			if value == nil {
				builder.WriteString(" - |")
			} else {
				builder.WriteString(p.Sprintf(" %.0f |", *value))
			}
		}
		builder.WriteString("\n")
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)

	out, err := r.Render(builder.String())
	if err != nil {
		log.Error().Err(err).Msg("could not render financial table")
		fmt.Print(builder.String())
		return
	}

	fmt.Print(out)
}

func writeCSV(fileName string, response *data.FinancialResponse) error {
	fh, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer fh.Close()

	return gocsv.MarshalFile(&response.Data, fh)
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchMode, "mode", "m", "quarterly", "pipeline mode (yearly or quarterly)")
	fetchCmd.Flags().StringVar(&fetchCSV, "csv", "", "export records to a CSV file")
	fetchCmd.Flags().BoolVar(&fetchSave, "save", false, "save records to the data library")
}
