package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pyhub-apps/pdfops-golang"
	"github.com/pyhub-apps/pdfops-golang/pkg/text"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: extract_text <pdf_file>")
		os.Exit(1)
	}

	pdfPath := os.Args[1]

	fmt.Printf("Opening PDF: %s\n", pdfPath)
	doc, err := pdfops.Open(pdfPath)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}

	fmt.Printf("Document has %d pages\n", doc.PageCount())
	fmt.Printf("Embeds images: %v\n\n", pdfops.HasImageContent(doc))

	texts, err := text.Pages(doc.Bytes())
	if err != nil {
		log.Fatalf("Failed to extract text: %v", err)
	}

	for _, page := range doc.Pages() {
		fmt.Printf("=== Page %d ===\n", page.Number)
		fmt.Printf("Size: %.2f x %.2f\n", page.MediaBox.Width(), page.MediaBox.Height())
		if page.Rotate != 0 {
			fmt.Printf("Rotate: %d\n", page.Rotate)
		}

		if s := strings.TrimSpace(texts[page.Number-1]); s != "" {
			fmt.Println("\nExtracted Text:")
			fmt.Println(s)
		} else {
			fmt.Println("No text found on this page")
		}

		fmt.Printf("\nResources found:\n")
		for _, r := range page.Resources {
			if r.Err != nil {
				fmt.Printf("  %s/%s: unreadable (%v)\n", r.Category, r.Name, r.Err)
				continue
			}
			fmt.Printf("  %s/%s: %s\n", r.Category, r.Name, r.Kind)
		}

		fmt.Println()
	}
}
