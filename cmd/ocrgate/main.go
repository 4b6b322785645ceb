// ocrgate is a command-line tool for recognizing text in images and PDFs.
//
// The files are run through one of the configured predictors and the result
// can be saved as page records, an hOCR document, plain text or a searchable
// PDF.
//
// Usage:
//
//	ocrgate -files scan.png [options]
//
// Required flags:
//
//	-files string  Comma separated list of input files (images or PDFs)
//
// Predictor options:
//
//	-config string      Path to the YAML configuration file (defaults to tesseract)
//	-model string       Predictor to use (tesseract, docai or remote)
//	-lang string        Comma separated language hints
//	-straight           Report straight boxes instead of polygons (default true)
//	-detect-language    Ask the predictor to detect the page language
//
// Output options (at least one required):
//
//	-json string    Path to save the page records as JSON
//	-hocr string    Path to save the hOCR document
//	-text string    Path to save the recognized text
//	-output string  Path to save a searchable PDF
//
// A single PDF input gets the OCR text applied as a layer on top of the
// original pages. Image inputs are assembled into a new PDF.
//
// Example:
//
//	ocrgate -files page1.png,page2.png -lang is -hocr scan.hocr -output scan.pdf
//	ocrgate -config config.yml -model docai -files letter.pdf -json letter.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gardar/ocrgate/pkg/config"
	"github.com/gardar/ocrgate/pkg/hocr"
	"github.com/gardar/ocrgate/pkg/loader"
	"github.com/gardar/ocrgate/pkg/ocr"
	"github.com/gardar/ocrgate/pkg/pdfocr"
)

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file")
	filePaths := flag.String("files", "", "Comma-separated list of input files (required)")

	model := flag.String("model", "", "Predictor to use (defaults to the configured default)")
	languages := flag.String("lang", "", "Comma-separated language hints")
	straight := flag.Bool("straight", true, "Report straight boxes instead of polygons")
	detectLanguage := flag.Bool("detect-language", false, "Ask the predictor to detect the page language")

	jsonPath := flag.String("json", "", "Path to save the page records as JSON")
	hocrPath := flag.String("hocr", "", "Path to save HOCR output")
	textPath := flag.String("text", "", "Path to save OCR text output")
	pdfOcrPath := flag.String("output", "", "Path to save the PDF with OCR applied")
	debug := flag.Bool("debug", false, "Draw the OCR text and word boxes visibly in the output PDF")

	flag.Parse()

	providedFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		providedFlags[f.Name] = true
	})

	if *filePaths == "" {
		fmt.Fprintln(os.Stderr, "Error: -files flag is required")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	hasError := false
	validateFlag := func(name string, value string) {
		if providedFlags[name] && value == "" {
			fmt.Fprintf(os.Stderr, "Error: -%s flag requires a value\n", name)
			hasError = true
		}
	}

	validateFlag("config", *configPath)
	validateFlag("model", *model)
	validateFlag("json", *jsonPath)
	validateFlag("hocr", *hocrPath)
	validateFlag("text", *textPath)
	validateFlag("output", *pdfOcrPath)

	if hasError {
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if !providedFlags["json"] && !providedFlags["hocr"] && !providedFlags["text"] && !providedFlags["output"] {
		fmt.Fprintln(os.Stderr, "Error: At least one output flag must be provided (-json, -hocr, -text, or -output)")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var files []loader.File
	for _, path := range strings.Split(*filePaths, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read file %s: %v", path, err)
		}
		files = append(files, loader.File{Name: filepath.Base(path), Content: content})
	}

	inputs, err := loader.Load(files)
	if err != nil {
		log.Fatalf("Failed to load files: %v", err)
	}

	opts := ocr.Options{
		Model:          *model,
		StraightPages:  *straight,
		DetectLanguage: *detectLanguage,
	}
	for _, lang := range strings.Split(*languages, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			opts.Languages = append(opts.Languages, lang)
		}
	}

	predictor, err := cfg.Registry().New(opts)
	if err != nil {
		log.Fatalf("Failed to create predictor: %v", err)
	}

	fmt.Printf("Recognizing %d files\n", len(inputs))

	result, err := ocr.Recognize(context.Background(), predictor, inputs)
	if err != nil {
		log.Fatalf("Error recognizing files: %v", err)
	}

	fmt.Printf("Recognized %d pages\n", len(result.Pages))

	if *jsonPath != "" {
		records, err := ocr.BuildResultRecords(result)
		if err != nil {
			log.Fatalf("Failed to build page records: %v", err)
		}

		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			log.Fatalf("Failed to convert page records to JSON: %v", err)
		}
		if err := os.WriteFile(*jsonPath, data, 0644); err != nil {
			log.Fatalf("Failed to write JSON output: %v", err)
		}
		fmt.Println("Page records saved to:", *jsonPath)
	}

	doc, err := ocr.CreateHOCRDocument(result.Pages, cfg.SystemInfo())
	if err != nil {
		log.Fatalf("Failed to build HOCR document: %v", err)
	}

	if *hocrPath != "" {
		html, err := hocr.GenerateHOCRDocument(doc)
		if err != nil {
			log.Fatalf("Failed to render HOCR: %v", err)
		}
		if err := os.WriteFile(*hocrPath, []byte(html), 0644); err != nil {
			log.Fatalf("Failed to write HOCR output: %v", err)
		}
		fmt.Println("Rendered HOCR output saved to:", *hocrPath)
	}

	if *textPath != "" {
		if err := os.WriteFile(*textPath, []byte(hocr.ExtractHOCRText(doc)), 0644); err != nil {
			log.Fatalf("Failed to write text output: %v", err)
		}
		fmt.Println("Document text saved to:", *textPath)
	}

	if *pdfOcrPath != "" {
		ocrConfig := pdfocr.DefaultConfig()
		ocrConfig.Debug = *debug

		var ocrPdfBytes []byte

		switch {
		case len(inputs) == 1 && inputs[0].IsPDF():
			fmt.Println("Creating searchable PDF by applying OCR to existing PDF...")

			ocrPdfBytes, err = pdfocr.ApplyOCR(inputs[0].Content, doc, ocrConfig)
			if err != nil {
				log.Fatalf("Failed to apply OCR to PDF: %v", err)
			}
		default:
			var pageImages [][]byte
			for _, input := range inputs {
				if input.IsPDF() {
					log.Fatalf("Cannot assemble a PDF from %s: only a single PDF input can be made searchable", input.Name)
				}
				pageImages = append(pageImages, input.Content)
			}

			fmt.Printf("Assembling PDF with %d pages...\n", len(pageImages))

			ocrPdfBytes, err = pdfocr.AssembleWithOCR(doc, pageImages, ocrConfig)
			if err != nil {
				log.Fatalf("Failed to create PDF from images: %v", err)
			}
		}

		if err := os.WriteFile(*pdfOcrPath, ocrPdfBytes, 0644); err != nil {
			log.Fatalf("Failed to write OCR'ed PDF: %v", err)
		}
		fmt.Println("OCR'ed PDF saved to:", *pdfOcrPath)
	}
}
