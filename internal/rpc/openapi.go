// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// buildOpenAPIDoc generates a self-describing OpenAPI document from the
// dispatch table's method names, served at GET /openapi.json
// (SPEC_FULL.md's self-documentation requirement). Every RPC method is
// exposed as its own POST /rpc/{method} path taking an arbitrary JSON
// body — the dispatch table's decode[T] gives each handler its concrete
// shape at runtime, but that per-method schema isn't reflected here.
func buildOpenAPIDoc(methods map[string]Handler) *openapi3.T {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := openapi3.NewPaths()
	for _, name := range names {
		paths.Set("/rpc/"+name, &openapi3.PathItem{
			Post: &openapi3.Operation{
				OperationID: name,
				Summary:     "invoke the " + name + " RPC method",
				RequestBody: &openapi3.RequestBodyRef{
					Value: &openapi3.RequestBody{
						Required: false,
						Content:  openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema()),
					},
				},
				Responses: openapi3.NewResponses(),
			},
		})
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "scheduler RPC",
			Version: "1.0.0",
		},
		Paths: paths,
	}
}

func (s *Server) openAPIHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(s.openapiDoc)
}
