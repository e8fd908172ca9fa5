//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
)

// Fake SWAPI and JSONPlaceholder served to the binary under test
const (
	fakePages   = 4
	fakePerPage = 3
	fakePosts   = 30
)

var apiServer *httptest.Server

func startFakeAPI() *httptest.Server {
	mux := http.NewServeMux()
	for _, resource := range []string{"starships", "species", "people"} {
		mux.HandleFunc("/api/"+resource+"/", swapiHandler(resource))
	}
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("_page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("_limit"))
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}
		var posts []map[string]any
		for id := (page-1)*limit + 1; id <= min(page*limit, fakePosts); id++ {
			posts = append(posts, map[string]any{
				"userId": 1, "id": id,
				"title": fmt.Sprintf("post title %d", id),
				"body":  fmt.Sprintf("body of post %d", id),
			})
		}
		writeJSON(w, posts)
	})
	mux.HandleFunc("GET /comments", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.URL.Query().Get("postId"))
		writeJSON(w, []map[string]any{
			{"postId": id, "id": id*10 + 1, "name": "c", "email": "fan@example.com", "body": fmt.Sprintf("comment on %d", id)},
		})
	})
	mux.HandleFunc("DELETE /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{})
	})
	mux.HandleFunc("PATCH /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["id"] = id
		writeJSON(w, body)
	})
	return httptest.NewServer(mux)
}

// swapiHandler serves fakePages pages named "<resource>-<page>-<n>"
func swapiHandler(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			page, _ = strconv.Atoi(p)
		}
		if page < 1 || page > fakePages {
			http.Error(w, `{"detail":"Not found"}`, http.StatusNotFound)
			return
		}
		link := func(n int) any {
			if n < 1 || n > fakePages {
				return nil
			}
			return fmt.Sprintf("%s/api/%s/?page=%d", apiServer.URL, resource, n)
		}
		results := make([]map[string]any, 0, fakePerPage)
		for i := 1; i <= fakePerPage; i++ {
			results = append(results, map[string]any{
				"name":  fmt.Sprintf("%s-%d-%d", strings.TrimSuffix(resource, "s"), page, i),
				"model": "e2e",
			})
		}
		writeJSON(w, map[string]any{
			"count":    fakePages * fakePerPage,
			"next":     link(page + 1),
			"previous": link(page - 1),
			"results":  results,
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
