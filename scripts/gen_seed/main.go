// Command gen_seed writes sample catalogue documents for SEED_ENABLED runs.
package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	dataDir := flag.String("dir", "data", "output directory")
	compress := flag.Bool("gzip", false, "write .json.gz files")
	flag.Parse()

	// Create directory if it doesn't exist
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	// Products use the paged API shape; prices mix numbers and es-CO strings.
	docs := map[string]any{
		"products.json": map[string]any{
			"content": []map[string]any{
				{
					"id":           "llavero-acrilico",
					"name":         "Llavero acrilico personalizado",
					"price":        "12.000",
					"description":  "Llavero en acrilico cortado en laser.",
					"category":     "Accesorios",
					"images":       []string{"https://cdn.krubolab.com/llavero.jpg"},
					"colours":      "Transparente, Rojo, Azul",
					"measurements": []string{"5cm", "7cm"},
					"materials":    []string{"Acrilico 3mm"},
				},
				{
					"id":           "lampara-mdf",
					"name":         "Lampara en MDF",
					"price":        45000,
					"category":     "Hogar",
					"images":       []string{"https://cdn.krubolab.com/lampara.jpg"},
					"colours":      []string{"Natural"},
					"measurements": []string{"20cm", "30cm"},
					"materials":    []string{"MDF 3mm", "LED"},
				},
				{
					"id":       "porta-retrato",
					"name":     "Porta retrato grabado",
					"price":    "30.000",
					"category": "Hogar",
					"image":    "https://cdn.krubolab.com/retrato.jpg",
				},
			},
		},
		"services.json": []map[string]any{
			{"id": "corte-laser", "name": "Corte laser", "price": "30.000", "duration": "1h", "category": "Fabricacion"},
			{"id": "grabado", "name": "Grabado personalizado", "price": 20000, "duration": "30min", "category": "Fabricacion"},
			{"id": "impresion-3d", "name": "Impresion 3D", "price": "15.000", "duration": "por hora", "category": "Prototipado"},
		},
		"contacts.json": []map[string]any{
			{"id": "contact-ana", "name": "Ana Gomez", "email": "ana@example.com", "phone": "3001234567", "status": "Active"},
			{"id": "contact-luis", "name": "Luis Perez", "email": "luis@example.com", "company": "Taller Norte"},
		},
	}

	for filename, doc := range docs {
		filePath := filepath.Join(*dataDir, filename)
		if *compress {
			filePath += ".gz"
		}

		if err := writeDocument(filePath, doc); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s\n", filePath)
	}

	names := make([]string, 0, len(docs))
	for filename := range docs {
		if *compress {
			filename += ".gz"
		}
		names = append(names, filename)
	}
	fmt.Println("\nSample seed documents created successfully!")
	fmt.Printf("\nSEED_ENABLED=true SEED_DIR=%s SEED_FILES=%s\n", *dataDir, strings.Join(names, ","))
}

func writeDocument(filePath string, doc any) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if !strings.HasSuffix(filePath, ".gz") {
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	gzipWriter := gzip.NewWriter(file)
	if err := json.NewEncoder(gzipWriter).Encode(doc); err != nil {
		gzipWriter.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	return gzipWriter.Close()
}
