package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pyhub-apps/pdfops-golang"
	"github.com/pyhub-apps/pdfops-golang/pkg/text"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/benchmark <pdf-file>")
		os.Exit(1)
	}

	pdfPath := os.Args[1]

	// Warm-up run
	if _, err := pdfops.Open(pdfPath); err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}

	start := time.Now()
	doc, err := pdfops.Open(pdfPath)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	openTime := time.Since(start)

	fmt.Printf("=== pdfops Benchmark ===\n")
	fmt.Printf("File: %s\n", pdfPath)
	fmt.Printf("Pages: %d\n", doc.PageCount())
	fmt.Printf("Size: %d bytes\n", doc.Len())
	fmt.Printf("Open time: %v\n", openTime)

	start = time.Now()
	texts, err := text.Pages(doc.Bytes())
	if err != nil {
		log.Printf("Text extraction failed: %v", err)
	}
	textTime := time.Since(start)
	var totalTextLen int
	for _, s := range texts {
		totalTextLen += len(s)
	}
	fmt.Printf("Text extraction time: %v (%d chars)\n", textTime, totalTextLen)

	start = time.Now()
	merged, err := pdfops.Merge([]*pdfops.Document{doc, doc})
	if err != nil {
		log.Fatalf("Merge failed: %v", err)
	}
	fmt.Printf("Merge time: %v (%d pages)\n", time.Since(start), merged.PageCount())

	start = time.Now()
	if _, err := pdfops.Split(merged, 1, doc.PageCount()); err != nil {
		log.Fatalf("Split failed: %v", err)
	}
	fmt.Printf("Split time: %v\n", time.Since(start))

	start = time.Now()
	marked, err := pdfops.Watermark(doc, "BENCHMARK")
	if err != nil {
		log.Fatalf("Watermark failed: %v", err)
	}
	fmt.Printf("Watermark time: %v (%d -> %d bytes)\n", time.Since(start), doc.Len(), marked.Len())

	start = time.Now()
	compressed, err := pdfops.Compress(doc)
	if err != nil {
		fmt.Printf("Compress skipped: %v\n", err)
		return
	}
	fmt.Printf("Compress time: %v (%d -> %d bytes)\n", time.Since(start), doc.Len(), compressed.Len())
}
