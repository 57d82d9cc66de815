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

// This binary serves resolved BGZF chunk lists for BAI indexes stored in a
// local directory or in GCS.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/genomics-tools/bindex/api"
)

var (
	port = flag.Int("port", 8080, "HTTP service port")

	directory = flag.String("dir", "", "serve .bai files from this directory")
	gcs       = flag.Bool("gcs", false, "serve indexes addressed as bucket/object from GCS")
	buckets   = flag.String("buckets", "", "if set, restricts GCS reads to a comma-separated list of buckets")

	public      = flag.Bool("public", false, "read GCS objects without credentials (public data only)")
	accessToken = flag.String("access_token", "", "OAuth2 access token used for GCS reads")

	httpsCert = flag.String("https_cert", "", "HTTPS certificate file")
	httpsKey  = flag.String("https_key", "", "HTTPS key file")
)

func main() {
	flag.Parse()

	if (*directory != "") == *gcs {
		log.Fatalf("You must specify exactly one of -dir and -gcs.")
	}
	if (*httpsCert == "") != (*httpsKey == "") {
		log.Fatalf("You must specify both -https_cert and -https_key to serve HTTPS.")
	}

	r := gin.Default()
	r.Use(api.RequestID())

	if *directory != "" {
		r.GET("/chunks/:id", api.NewFileChunksHandler(*directory))
	} else {
		client, err := newStorageClient(context.Background())
		if err != nil {
			log.Fatalf("Creating storage client: %v", err)
		}
		var whitelist []string
		if *buckets != "" {
			whitelist = strings.Split(*buckets, ",")
		}
		r.GET("/chunks/*id", api.NewGCSChunksHandler(client, whitelist))
	}

	address := fmt.Sprintf(":%d", *port)
	if *httpsCert != "" {
		if err := r.RunTLS(address, *httpsCert, *httpsKey); err != nil {
			log.Fatalf("HTTPS server returned an error: %v", err)
		}
	} else {
		if err := r.Run(address); err != nil {
			log.Fatalf("HTTP server returned an error: %v", err)
		}
	}
}

func newStorageClient(ctx context.Context) (api.Client, error) {
	switch {
	case *accessToken != "":
		return api.NewTokenClient(ctx, *accessToken)
	case *public:
		return api.NewPublicClient(ctx)
	default:
		return api.NewDefaultClient(ctx)
	}
}
