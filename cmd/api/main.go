// cmd/api/main.go
package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
)

func main() {
	directoryServiceURL, err := url.Parse(getEnv("DIRECTORY_SERVICE_URL", "http://localhost:8084"))
	if err != nil {
		log.Fatalf("Invalid DIRECTORY_SERVICE_URL: %v", err)
	}

	directoryProxy := httputil.NewSingleHostReverseProxy(directoryServiceURL)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/directory/", http.StripPrefix("/api/v1/directory", directoryProxy))
	mux.Handle("/", directoryProxy)

	port := getEnv("PORT", "8080")
	log.Printf("API Gateway listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, mux))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
