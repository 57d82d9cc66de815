// Copyright 2024 The bindex Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This binary resolves a genomic region against a local BAI index and
// prints the BGZF chunks that must be fetched from the data file.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/genomics-tools/bindex/api"
	"github.com/genomics-tools/bindex/internal/bai"
	"github.com/genomics-tools/bindex/internal/genomics"
)

var (
	indexFile = flag.String("index", "", "BAI index file")
	reference = flag.Int("ref", 0, "numeric reference sequence ID")
	start     = flag.Uint("start", 0, "zero-based region start (in base pairs)")
	end       = flag.Uint("end", 0, "region end, or 0 for the rest of the reference")
)

func main() {
	flag.Parse()

	if *indexFile == "" {
		log.Fatalf("You must specify an index file with -index.")
	}

	data, err := os.ReadFile(*indexFile)
	if err != nil {
		log.Fatalf("Reading index: %v", err)
	}
	index, err := bai.New(data)
	if err != nil {
		log.Fatalf("Parsing index: %v", err)
	}

	chunks, err := index.Chunks(genomics.Region{
		ReferenceID: int32(*reference),
		Start:       uint32(*start),
		End:         uint32(*end),
	})
	if err != nil {
		log.Fatalf("Resolving chunks: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(api.NewChunksResponse(chunks)); err != nil {
		log.Fatalf("Writing result: %v", err)
	}
}
