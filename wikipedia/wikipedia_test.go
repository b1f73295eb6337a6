// Copyright 2025-2026
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

package wikipedia_test

import (
	"context"
	"os"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/hindsight-labs/hindsight/sp500"
	"github.com/hindsight-labs/hindsight/wikipedia"
)

var _ = Describe("Constituents", func() {
	var (
		client *wikipedia.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		httpmock.Activate()
		ctx = context.Background()
		client = wikipedia.NewClient()

		content, err := os.ReadFile("testdata/constituents.html")
		if err != nil {
			panic(err)
		}
		httpmock.RegisterResponder("GET", "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies",
			httpmock.NewBytesResponder(200, content))
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	It("parses the current constituents table", func() {
		current, _, err := client.Constituents(ctx)
		Expect(err).To(BeNil())
		Expect(current).To(HaveLen(4))
		Expect(current[0]).To(Equal(sp500.CurrentRow{Symbol: "A", Security: "Agilent Technologies"}))
		Expect(current[3].Symbol).To(Equal("BRK.B"))
	})

	It("parses the changes table including rowspan continuation rows", func() {
		_, changes, err := client.Constituents(ctx)
		Expect(err).To(BeNil())
		Expect(changes).To(HaveLen(4))

		Expect(changes[0].Date).To(Equal("June 14, 2023"))
		Expect(changes[0].AddedTickers).To(Equal("PANW"))
		Expect(changes[0].RemovedTickers).To(Equal("DISH"))

		// second row of the rowspan inherits the date
		Expect(changes[1].Date).To(Equal("June 14, 2023"))
		Expect(changes[1].AddedTickers).To(Equal("GEHC"))

		Expect(changes[2].Date).To(Equal("March 15, 2023"))
		Expect(changes[3].AddedTickers).To(Equal(""))
		Expect(changes[3].RemovedTickers).To(Equal("GPS"))
	})

	It("feeds cleanly into the change log parser", func() {
		current, changes, err := client.Constituents(ctx)
		Expect(err).To(BeNil())

		_, names := sp500.CurrentMembers(current)
		events := sp500.ParseChangeLog(changes, names)
		Expect(events).To(HaveLen(7))
		Expect(events[0].EffectiveDate.Year()).To(Equal(2023))
		Expect(names).To(HaveKeyWithValue("SBNY", "Signature Bank"))
	})

	It("propagates http failures", func() {
		httpmock.RegisterResponder("GET", "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies",
			httpmock.NewStringResponder(503, "upstream unavailable"))

		_, _, err := client.Constituents(ctx)
		Expect(err).NotTo(BeNil())
	})
})
